package router

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	route    string
	params   map[string]string
	mounts   int
	unmounts int
	fetches  *int
}

func (v *fakeView) Mount(ctx context.Context) error {
	v.mounts++
	if v.route == PathDashboard {
		*v.fetches++
	}
	return nil
}

func (v *fakeView) Unmount() { v.unmounts++ }

type viewRecorder struct {
	built   []*fakeView
	fetches int
}

func (r *viewRecorder) factory(route string, params map[string]string) View {
	v := &fakeView{route: route, params: params, fetches: &r.fetches}
	r.built = append(r.built, v)
	return v
}

func newNavigator(t *testing.T) (*Navigator, *session.Manager, *viewRecorder) {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(), logging.Discard())
	rec := &viewRecorder{}
	n := NewNavigator(NewGate(Routes), m, rec.factory, logging.Discard())
	t.Cleanup(n.Close)
	return n, m, rec
}

func TestNavigator_ProtectedPathWithoutSessionNeverBuildsView(t *testing.T) {
	ctx := context.Background()
	n, _, rec := newNavigator(t)

	require.NoError(t, n.Start(ctx, "/dashboard"))

	assert.Equal(t, PathLogin, n.Path())
	assert.Equal(t, PathLogin, n.Route())
	require.Len(t, rec.built, 1)
	assert.Equal(t, PathLogin, rec.built[0].route)
	assert.Zero(t, rec.fetches)
}

func TestNavigator_LogoutWhileOnDashboardRedirects(t *testing.T) {
	ctx := context.Background()
	n, m, rec := newNavigator(t)
	require.NoError(t, m.Login(ctx, "tok1", models.UserProfile{ID: "u1", Name: "Ana"}))

	require.NoError(t, n.Start(ctx, "/dashboard"))
	require.Equal(t, PathDashboard, n.Route())
	dashboard := rec.built[0]
	assert.Equal(t, 1, rec.fetches)

	require.NoError(t, m.Logout(ctx))

	assert.Equal(t, PathLogin, n.Path())
	assert.Equal(t, 1, dashboard.unmounts)
	assert.Equal(t, 1, rec.fetches)
}

func TestNavigator_SameRouteKeepsView(t *testing.T) {
	ctx := context.Background()
	n, m, rec := newNavigator(t)
	require.NoError(t, n.Start(ctx, "/login"))

	// Logging in on a public page re-evaluates /login, which still renders.
	require.NoError(t, m.Login(ctx, "tok1", models.UserProfile{ID: "u1", Name: "Ana"}))
	assert.Equal(t, PathLogin, n.Path())
	require.Len(t, rec.built, 1)
	assert.Zero(t, rec.built[0].unmounts)

	require.NoError(t, n.Navigate(ctx, "/"))
	assert.Equal(t, PathDashboard, n.Path())
	require.Len(t, rec.built, 2)
	assert.Equal(t, 1, rec.built[0].unmounts)
	assert.Equal(t, 1, rec.built[1].mounts)
}

func TestNavigator_ParamsDistinguishViews(t *testing.T) {
	ctx := context.Background()
	n, m, rec := newNavigator(t)
	require.NoError(t, m.Login(ctx, "tok1", models.UserProfile{ID: "u1", Name: "Ana"}))
	require.NoError(t, n.Start(ctx, "/usuario/1"))
	require.NoError(t, n.Navigate(ctx, "/usuario/2"))

	require.Len(t, rec.built, 2)
	assert.Equal(t, map[string]string{"id": "2"}, n.Params())
	assert.Equal(t, 1, rec.built[0].unmounts)
}

func TestNavigator_RedirectLoop(t *testing.T) {
	gate := NewGate(nil)
	m := session.NewManager(session.NewMemoryStore(), logging.Discard())
	n := NewNavigator(gate, m, func(string, map[string]string) View { return nil }, logging.Discard())

	err := n.Navigate(context.Background(), "/anything")
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestNavigator_CloseUnmounts(t *testing.T) {
	ctx := context.Background()
	n, _, rec := newNavigator(t)
	require.NoError(t, n.Start(ctx, "/login"))

	n.Close()
	assert.Equal(t, 1, rec.built[0].unmounts)
	assert.Nil(t, n.View())
}
