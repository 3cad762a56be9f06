package router

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

const maxRedirects = 5

var ErrRedirectLoop = errors.New("too many redirects")

// View is a screen bound to a route. Mount may start network work; Unmount
// must stop it.
type View interface {
	Mount(ctx context.Context) error
	Unmount()
}

// ViewFactory builds the view for a rendered route. It is only called once
// the gate has allowed the route.
type ViewFactory func(route string, params map[string]string) View

// SessionSource is the part of the session the navigator depends on.
type SessionSource interface {
	Authenticated() bool
	Subscribe(fn session.Listener) (unsubscribe func())
}

type Navigator struct {
	gate    *Gate
	session SessionSource
	factory ViewFactory
	logger  logging.Logger

	mu     sync.Mutex
	ctx    context.Context
	path   string
	route  string
	params map[string]string
	view   View
	stop   func()
}

func NewNavigator(gate *Gate, s SessionSource, factory ViewFactory, logger logging.Logger) *Navigator {
	return &Navigator{gate: gate, session: s, factory: factory, logger: logger}
}

// Start navigates to path and re-evaluates the current path on every session
// transition until Close. ctx is used for mounts triggered by the session.
func (n *Navigator) Start(ctx context.Context, path string) error {
	n.mu.Lock()
	n.ctx = ctx
	n.mu.Unlock()

	n.stop = n.session.Subscribe(func(session.Snapshot) {
		n.mu.Lock()
		ctx, current := n.ctx, n.path
		n.mu.Unlock()

		if err := n.Navigate(ctx, current); err != nil {
			n.logger.Warn(ctx, "re-evaluating route after session change failed", "path", current, "error", err)
		}
	})

	return n.Navigate(ctx, path)
}

// Navigate follows the gate's redirects until a route renders, then swaps the
// mounted view. Navigating to the route already shown with the same params
// keeps the mounted view.
func (n *Navigator) Navigate(ctx context.Context, path string) error {
	authenticated := n.session.Authenticated()

	var d Decision
	target := path
	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return fmt.Errorf("%w: %s", ErrRedirectLoop, path)
		}
		d = n.gate.Decide(target, authenticated)
		if d.Action == Render {
			break
		}
		n.logger.Debug(ctx, "redirect", "from", target, "to", d.Target)
		target = d.Target
	}

	n.mu.Lock()
	if n.view != nil && n.route == d.Route && maps.Equal(n.params, d.Params) {
		n.path = cleanPath(target)
		n.mu.Unlock()
		return nil
	}

	prev := n.view
	n.path = cleanPath(target)
	n.route = d.Route
	n.params = d.Params
	n.view = nil
	n.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}

	view := n.factory(d.Route, d.Params)

	n.mu.Lock()
	n.view = view
	n.mu.Unlock()

	if view == nil {
		return nil
	}
	return view.Mount(ctx)
}

func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *Navigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func (n *Navigator) Params() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return maps.Clone(n.params)
}

func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Close stops following the session and unmounts the current view.
func (n *Navigator) Close() {
	if n.stop != nil {
		n.stop()
	}

	n.mu.Lock()
	view := n.view
	n.view = nil
	n.mu.Unlock()

	if view != nil {
		view.Unmount()
	}
}
