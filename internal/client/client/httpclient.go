package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/google/uuid"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	logger  logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request. Zero disables the per-request bound.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(h *HTTPClient) { h.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		tokens:  TokenFunc(func() string { return "" }),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call describes one API round trip.
type call struct {
	method     string
	path       string
	query      url.Values
	body       any
	out        any
	authorized bool
}

// do runs one round trip. rc.path must already be escaped.
func (c *HTTPClient) do(ctx context.Context, rc call) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + rc.path
	path, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", rc.path, err)
	}
	u.Path = path
	if rc.query != nil {
		u.RawQuery = rc.query.Encode()
	}

	var body io.Reader
	if rc.body != nil {
		b, err := json.Marshal(rc.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	if rc.authorized {
		token := c.tokens.Token()
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
	}

	log := c.logger.With("method", rc.method, "path", rc.path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return ctxErr
		}
		log.Warn(ctx, "api request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "api request", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if rc.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	// An empty body (e.g. 204) leaves out untouched.
	if err := json.NewDecoder(resp.Body).Decode(rc.out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads {"message": ...} bodies. The message may be a string
// or a list of strings.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(b, &envelope) != nil || len(envelope.Message) == 0 {
		return apiErr
	}

	var single string
	if json.Unmarshal(envelope.Message, &single) == nil {
		apiErr.Message = single
		return apiErr
	}
	var many []string
	if json.Unmarshal(envelope.Message, &many) == nil {
		apiErr.Message = strings.Join(many, "; ")
	}
	return apiErr
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.LoginRequest{Email: email, Password: password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/password-reset/request",
		body:   models.PasswordResetRequest{Email: email},
	})
}

func (c *HTTPClient) ValidatePasswordReset(ctx context.Context, email, code string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/password-reset/validate",
		body:   models.PasswordResetValidation{Email: email, Code: code},
	})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	return c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/auth/password-reset",
		body:   models.PasswordResetPayload{Email: email, NewPassword: newPassword},
	})
}

// Register is the public sign-up endpoint; it needs no session.
func (c *HTTPClient) Register(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users", body: p, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateByAuth(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error) {
	var out models.UserProfile
	err := c.do(ctx, call{
		method: http.MethodPost, path: "/users/create-by-auth",
		body: p, out: &out, authorized: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetUsers(ctx context.Context, page, limit int, q string) (*models.UsersPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("q", q)

	var out models.UsersPage
	err := c.do(ctx, call{
		method: http.MethodGet, path: "/users",
		query: query, out: &out, authorized: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	var out models.UserProfile
	err := c.do(ctx, call{
		method: http.MethodGet, path: userPath(id),
		out: &out, authorized: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, p models.UpdateUserPayload) (*models.UserProfile, error) {
	var out models.UserProfile
	err := c.do(ctx, call{
		method: http.MethodPut, path: userPath(id),
		body: p, out: &out, authorized: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, id, password string) error {
	return c.do(ctx, call{
		method: http.MethodPatch, path: userPath(id, "/password"),
		body: models.PasswordChangePayload{Password: password}, authorized: true,
	})
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodDelete, path: userPath(id),
		authorized: true,
	})
}

// userPath builds /users/{id}[suffix] with id kept as a single path segment.
func userPath(id string, suffix ...string) string {
	seg := url.PathEscape(id)
	if seg == "." || seg == ".." {
		seg = strings.ReplaceAll(seg, ".", "%2E")
	}
	return "/users/" + seg + strings.Join(suffix, "")
}
