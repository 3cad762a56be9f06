package cli

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/router"
)

// view is a page of the console. Handle reports whether it knew cmd.
type view interface {
	router.View
	Commands() []string
	Handle(ctx context.Context, cmd string, args []string) (bool, error)
}

// buildView is the router's view factory. It runs only for routes the gate
// has allowed, so protected pages never start fetching without a session.
func (a *App) buildView(route string, params map[string]string) router.View {
	switch route {
	case router.PathLogin:
		return &loginView{app: a}
	case router.PathRegister:
		return &registerView{app: a}
	case router.PathForgot:
		return &forgotView{app: a}
	case router.PathDashboard:
		return newDashboardView(a)
	case router.PathUserNew:
		return &userFormView{app: a}
	case router.PathUser:
		return &userFormView{app: a, id: params["id"]}
	case router.PathSettings:
		return &settingsView{app: a}
	}
	return nil
}
