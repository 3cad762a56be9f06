// Package router decides, for a path and the current session, whether a view
// may be shown or the user must be sent elsewhere, and keeps track of the
// view currently on screen.
package router

import (
	"strings"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/registrar"
	PathForgot    = "/esqueceu-senha"
	PathDashboard = "/dashboard"
	PathUserNew   = "/usuario"
	PathUser      = "/usuario/:id"
	PathSettings  = "/configuracoes"
)

type Access int

const (
	Public Access = iota
	Protected
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "protected"
}

type Route struct {
	Pattern string
	Access  Access
}

// Routes is the console's route table.
var Routes = []Route{
	{Pattern: PathLogin, Access: Public},
	{Pattern: PathRegister, Access: Public},
	{Pattern: PathForgot, Access: Public},
	{Pattern: PathDashboard, Access: Protected},
	{Pattern: PathUserNew, Access: Protected},
	{Pattern: PathUser, Access: Protected},
	{Pattern: PathSettings, Access: Protected},
}

type Action int

const (
	Render Action = iota
	Redirect
)

// Decision is the outcome for one path. Route and Params are set for Render,
// Target for Redirect.
type Decision struct {
	Action Action
	Route  string
	Params map[string]string
	Target string
}

type Gate struct {
	routes []Route
}

func NewGate(routes []Route) *Gate {
	return &Gate{routes: routes}
}

// Decide is pure: the answer depends only on its arguments and the table.
// Public routes render whether or not a session exists.
func (g *Gate) Decide(path string, authenticated bool) Decision {
	home := PathLogin
	if authenticated {
		home = PathDashboard
	}

	path = cleanPath(path)
	if path == PathRoot {
		return Decision{Action: Redirect, Target: home}
	}

	for _, r := range g.routes {
		params, ok := match(r.Pattern, path)
		if !ok {
			continue
		}
		if r.Access == Protected && !authenticated {
			return Decision{Action: Redirect, Target: PathLogin}
		}
		return Decision{Action: Render, Route: r.Pattern, Params: params}
	}

	return Decision{Action: Redirect, Target: home}
}

// Lookup returns the route whose pattern is exactly pattern.
func (g *Gate) Lookup(pattern string) (Route, bool) {
	for _, r := range g.routes {
		if r.Pattern == pattern {
			return r, true
		}
	}
	return Route{}, false
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = PathRoot
		}
	}
	return p
}

func match(pattern, path string) (map[string]string, bool) {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}
