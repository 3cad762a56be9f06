package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophadmin/internal/client/apitest"
	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv   *apitest.Server
	store *session.MemoryStore
	sess  *session.Manager
	ana   models.UserProfile
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.NewServer(t)
	h := &harness{srv: srv, store: session.NewMemoryStore()}
	h.sess = session.NewManager(h.store, logging.Discard())
	h.ana = srv.AddUser(models.UserProfile{Name: "Ana", Email: "a@b.com"}, "secret")
	return h
}

// run plays script through a fresh App and returns it with everything it
// printed.
func (h *harness) run(t *testing.T, script ...string) (*App, string) {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	var out bytes.Buffer

	api, err := client.NewHTTPClient(h.srv.URL, client.WithTokenSource(h.sess))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := newApp(cfg, logging.Discard(), h.sess, api, strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	a.notify.DisableColor()
	a.Run(context.Background())
	return a, out.String()
}

func TestApp_ProtectedPagesNeedASession(t *testing.T) {
	h := newHarness(t)

	a, out := h.run(t, "goto /dashboard", "goto /usuario/1", "goto /configuracoes", "exit")

	assert.Equal(t, router.PathLogin, a.nav.Path())
	assert.Zero(t, h.srv.Calls("GET /users"))
	assert.Zero(t, h.srv.Calls("GET /users/{id}"))
	assert.Contains(t, out, "== Login ==")
	assert.NotContains(t, out, "== Users ==")
}

func TestApp_LoginListLogout(t *testing.T) {
	h := newHarness(t)
	for i := 1; i <= 24; i++ {
		h.srv.AddUser(models.UserProfile{Name: fmt.Sprintf("User %02d", i), Email: fmt.Sprintf("u%02d@example.com", i)}, "pw")
	}

	a, out := h.run(t,
		"login", "a@b.com", "wrong",
		"login", "a@b.com", "secret",
		"whoami",
		"next",
		"search User 2",
		"logout",
		"exit",
	)

	assert.Contains(t, out, "[error] invalid email or password")
	assert.Contains(t, out, "[ok] logged in")
	assert.Contains(t, out, "Page 1 of 3  [next]")
	assert.Contains(t, out, "Page 2 of 3  [prev]  [next]")
	assert.Contains(t, out, `Page 1 of 1  search: "User 2"`)
	assert.Contains(t, out, "Ana <a@b.com> id="+h.ana.ID)
	assert.Contains(t, out, "Token expires")
	assert.Contains(t, out, "[ok] logged out")

	assert.Equal(t, router.PathLogin, a.nav.Path())
	assert.Equal(t, 3, h.srv.Calls("GET /users"))
	assert.Zero(t, h.store.Len(), "logout wipes the store")
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	h.run(t, "login", "a@b.com", "secret", "exit")
	require.Equal(t, 2, h.store.Len())

	restored := session.NewManager(h.store, logging.Discard())
	require.NoError(t, restored.Hydrate(context.Background()))
	h.sess = restored

	a, out := h.run(t, "exit")
	assert.Equal(t, router.PathDashboard, a.nav.Path())
	assert.Contains(t, out, "(Ana) /dashboard")
}

func TestApp_DeleteFlow(t *testing.T) {
	h := newHarness(t)
	bia := h.srv.AddUser(models.UserProfile{Name: "Bia", Email: "bia@example.com"}, "pw")

	_, out := h.run(t,
		"login", "a@b.com", "secret",
		"confirm",
		"delete 9",
		"delete 2",
		"cancel",
		"delete 2",
		"confirm",
		"exit",
	)

	assert.Contains(t, out, "Nothing to confirm")
	assert.Contains(t, out, "[error] row must be between 1 and 2")
	assert.Contains(t, out, "Delete Bia <bia@example.com>?")
	assert.Contains(t, out, "Deletion cancelled")
	assert.Contains(t, out, "[ok] user deleted")
	assert.Equal(t, 1, h.srv.Calls("DELETE /users/{id}"))

	_, err := clientFor(t, h).GetUser(context.Background(), bia.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func clientFor(t *testing.T, h *harness) *client.HTTPClient {
	t.Helper()
	token := h.srv.IssueToken(h.ana.ID)
	c, err := client.NewHTTPClient(h.srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return token })))
	require.NoError(t, err)
	return c
}

func TestApp_CreateAndEditUser(t *testing.T) {
	h := newHarness(t)

	a, out := h.run(t,
		"login", "a@b.com", "secret",
		"new",
		"save", "Carla", "carla@example.com", "11987654321", "hello", "apoiador", "pw1234",
		"edit 2",
		"save", "Carla Souza", "", "", "", "", "",
		"exit",
	)

	assert.Contains(t, out, "[ok] user created")
	assert.Contains(t, out, "[ok] user updated")
	assert.Equal(t, router.PathDashboard, a.nav.Path())
	assert.Equal(t, 1, h.srv.Calls("POST /users/create-by-auth"))
	assert.Equal(t, 1, h.srv.Calls("PUT /users/{id}"))
	assert.Equal(t, "pw1234", h.srv.Password("carla@example.com"), "empty password keeps the current one")

	page, err := clientFor(t, h).GetUsers(context.Background(), 1, 10, "carla")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Carla Souza", page.Data[0].Name)
	assert.Equal(t, "(11) 98765-4321", page.Data[0].Phone)
	assert.Equal(t, models.RoleSupporter, page.Data[0].Role)
}

func TestApp_SupporterCannotSave(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(models.UserProfile{Name: "Sup", Email: "sup@example.com", Role: models.RoleSupporter}, "pw")

	_, out := h.run(t,
		"login", "sup@example.com", "pw",
		"new",
		"save",
		"exit",
	)

	assert.Contains(t, out, "Read-only")
	assert.Contains(t, out, "[error] your role cannot create or edit users")
	assert.Zero(t, h.srv.Calls("POST /users/create-by-auth"))
	assert.Zero(t, h.srv.Calls("POST /users"))
}

func TestApp_RegisterThenLogin(t *testing.T) {
	h := newHarness(t)

	a, out := h.run(t,
		"register", "Bia", "bia@example.com", "", "about me", "pw1", "pw2",
		"register", "Bia", "bia@example.com", "", "about me", "pw1", "pw1",
		"login", "bia@example.com", "pw1",
		"exit",
	)

	assert.Contains(t, out, "passwords do not match")
	assert.Contains(t, out, "[ok] user registered")
	assert.Contains(t, out, "(Bia) /dashboard")
	assert.Equal(t, router.PathDashboard, a.nav.Path())
	assert.Equal(t, 1, h.srv.Calls("POST /users"))
}

func TestApp_PasswordReset(t *testing.T) {
	h := newHarness(t)

	a, out := h.run(t,
		"reset", "a@b.com", "12",
		"reset", "000000",
		"reset", apitest.ResetCode, "brandnew",
		"exit",
	)

	assert.Contains(t, out, "[ok] code sent, check your email")
	assert.Contains(t, out, "[error] code: must be 6 digits")
	assert.Contains(t, out, "[error] invalid code")
	assert.Contains(t, out, "[ok] password reset, you can log in now")
	assert.Equal(t, router.PathLogin, a.nav.Path())
	assert.Equal(t, "brandnew", h.srv.Password("a@b.com"))
}

func TestApp_Settings(t *testing.T) {
	h := newHarness(t)

	_, out := h.run(t,
		"login", "a@b.com", "secret",
		"goto /configuracoes",
		"profile", "1133334444", "new bio",
		"password", "",
		"password", "n3w",
		"exit",
	)

	assert.Contains(t, out, "== Settings ==")
	assert.Contains(t, out, "[ok] profile updated")
	assert.Contains(t, out, "[error] enter a new password")
	assert.Contains(t, out, "[ok] password updated")
	assert.Equal(t, "n3w", h.srv.Password("a@b.com"))

	u, err := clientFor(t, h).GetUser(context.Background(), h.ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "(11) 3333-4444", u.Phone)
	assert.Equal(t, "new bio", u.Bio)
	assert.Equal(t, "Ana", u.Name)
}

func TestApp_HelpFollowsPage(t *testing.T) {
	h := newHarness(t)

	_, out := h.run(t, "help", "login", "a@b.com", "secret", "help", "exit")

	assert.Contains(t, out, "Available commands: help, goto <path>, whoami, login, register, reset, exit\nOn this page: login")
	assert.Contains(t, out, "Available commands: help, goto <path>, whoami, logout, exit\nOn this page: list, search [term]")
}

func TestApp_FailedPageLoadNotifiesOnce(t *testing.T) {
	h := newHarness(t)
	h.srv.FailNext("GET /users/{id}", 500, "db down")

	_, out := h.run(t,
		"login", "a@b.com", "secret",
		"goto /configuracoes",
		"goto /usuario/missing",
		"exit",
	)

	assert.Equal(t, 1, strings.Count(out, "[error] failed to load profile"))
	assert.Equal(t, 1, strings.Count(out, "[error] failed to load user"))
	assert.Equal(t, 2, strings.Count(out, "[error]"))
	assert.NotContains(t, out, "db down")
	assert.NotContains(t, out, "not found")
}

func TestApp_OneOutputSink(t *testing.T) {
	h := newHarness(t)

	_, out := h.run(t, "help", "bogus", "exit")

	assert.Contains(t, out, "Welcome to gophadmin")
	assert.Contains(t, out, "gophadmin (anonymous) /login> ")
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Bye!")
}
