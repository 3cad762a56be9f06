// Package apitest runs an in-memory stand-in for the remote user API. It
// speaks the same REST contract as the real backend, counts calls per route
// and can be told to fail the next call of a route.
//
//	srv := apitest.NewServer(t)
//	srv.AddUser(models.UserProfile{Name: "Ana", Email: "a@b.com"}, "secret")
//	c, _ := client.NewHTTPClient(srv.URL)
package apitest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ResetCode is the code every password-reset request "sends".
const ResetCode = "123456"

type failure struct {
	status  int
	message string
}

type account struct {
	profile  models.UserProfile
	password string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  []*account
	codes     map[string]string
	validated map[string]bool
	calls     map[string]int
	failures  map[string]failure
	secret    []byte
	now       func() time.Time
}

// NewServer starts the stub and closes it when tb finishes.
func NewServer(tb testing.TB) *Server {
	tb.Helper()

	s := &Server{
		codes:     map[string]string{},
		validated: map[string]bool{},
		calls:     map[string]int{},
		failures:  map[string]failure{},
		secret:    []byte(uuid.NewString()),
		now:       time.Now,
	}
	s.Server = httptest.NewServer(s.Router())
	tb.Cleanup(s.Close)
	return s
}

// Router builds the route table. Route names double as call-counter keys.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", s.wrap("POST /auth/login", false, s.login)).Methods(http.MethodPost)
	r.HandleFunc("/auth/password-reset/request", s.wrap("POST /auth/password-reset/request", false, s.resetRequest)).Methods(http.MethodPost)
	r.HandleFunc("/auth/password-reset/validate", s.wrap("POST /auth/password-reset/validate", false, s.resetValidate)).Methods(http.MethodPost)
	r.HandleFunc("/auth/password-reset", s.wrap("PATCH /auth/password-reset", false, s.resetPassword)).Methods(http.MethodPatch)

	r.HandleFunc("/users", s.wrap("POST /users", false, s.createUser)).Methods(http.MethodPost)
	r.HandleFunc("/users/create-by-auth", s.wrap("POST /users/create-by-auth", true, s.createUser)).Methods(http.MethodPost)
	r.HandleFunc("/users", s.wrap("GET /users", true, s.listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", s.wrap("GET /users/{id}", true, s.getUser)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", s.wrap("PUT /users/{id}", true, s.updateUser)).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}/password", s.wrap("PATCH /users/{id}/password", true, s.updatePassword)).Methods(http.MethodPatch)
	r.HandleFunc("/users/{id}", s.wrap("DELETE /users/{id}", true, s.deleteUser)).Methods(http.MethodDelete)

	return r
}

// AddUser seeds an account and returns its stored profile (ID and
// CreatedAt are filled in when empty).
func (s *Server) AddUser(u models.UserProfile, password string) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(u, password)
}

func (s *Server) addLocked(u models.UserProfile, password string) models.UserProfile {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt == nil {
		ts := s.now().UTC()
		u.CreatedAt = &ts
	}
	s.accounts = append(s.accounts, &account{profile: u, password: password})
	return u
}

// Calls reports how many requests reached route, e.g. "GET /users".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next call of route answer status with message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// IssueToken mints a bearer token for userID, valid for an hour.
func (s *Server) IssueToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return token
}

// Password returns the stored password of email, for assertions.
func (s *Server) Password(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.byEmailLocked(email); a != nil {
		return a.password
	}
	return ""
}

func (s *Server) wrap(route string, authorized bool, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		f, failing := s.failures[route]
		delete(s.failures, route)
		s.mu.Unlock()

		if failing {
			writeMessage(w, f.status, f.message)
			return
		}
		if authorized && !s.authorized(r) {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r)
	}
}

func (s *Server) authorized(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now))
	return err == nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	a := s.byEmailLocked(req.Email)
	s.mu.Unlock()

	if a == nil || a.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: s.IssueToken(a.profile.ID),
		ID:          a.profile.ID,
		Name:        a.profile.Name,
		Email:       a.profile.Email,
		Role:        a.profile.Role,
	})
}

func (s *Server) resetRequest(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byEmailLocked(req.Email) == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	s.codes[req.Email] = ResetCode
	s.validated[req.Email] = false
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) resetValidate(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetValidation
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[req.Email]
	if !ok || code != req.Code {
		writeMessage(w, http.StatusBadRequest, "Invalid code")
		return
	}
	s.validated[req.Email] = true
	w.WriteHeader(http.StatusOK)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetPayload
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byEmailLocked(req.Email)
	if a == nil || !s.validated[req.Email] {
		writeMessage(w, http.StatusBadRequest, "Reset code not validated")
		return
	}
	a.password = req.NewPassword
	delete(s.codes, req.Email)
	delete(s.validated, req.Email)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserPayload
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byEmailLocked(req.Email) != nil {
		writeMessage(w, http.StatusConflict, "Email already in use")
		return
	}
	u := s.addLocked(models.UserProfile{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Bio: req.Bio, Role: req.Role,
	}, req.Password)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	term := strings.ToLower(q.Get("q"))

	s.mu.Lock()
	matched := make([]models.UserProfile, 0, len(s.accounts))
	for _, a := range s.accounts {
		if term == "" ||
			strings.Contains(strings.ToLower(a.profile.Name), term) ||
			strings.Contains(strings.ToLower(a.profile.Email), term) {
			matched = append(matched, a.profile)
		}
	}
	s.mu.Unlock()

	total := len(matched)
	from := min((page-1)*limit, total)
	to := min(from+limit, total)

	writeJSON(w, http.StatusOK, models.UsersPage{
		Data:       matched[from:to],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a := s.byIDLocked(mux.Vars(r)["id"])
	s.mu.Unlock()

	if a == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, a.profile)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserPayload
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byIDLocked(mux.Vars(r)["id"])
	if a == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	a.profile.Name = req.Name
	a.profile.Email = req.Email
	a.profile.Phone = req.Phone
	a.profile.Bio = req.Bio
	if req.Role != "" {
		a.profile.Role = req.Role
	}
	if req.Password != "" {
		a.password = req.Password
	}
	writeJSON(w, http.StatusOK, a.profile)
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordChangePayload
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byIDLocked(mux.Vars(r)["id"])
	if a == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	a.password = req.Password
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.profile.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User not found")
}

func (s *Server) byEmailLocked(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.profile.Email, email) {
			return a
		}
	}
	return nil
}

func (s *Server) byIDLocked(id string) *account {
	for _, a := range s.accounts {
		if a.profile.ID == id {
			return a
		}
	}
	return nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"statusCode": status, "message": message})
}
