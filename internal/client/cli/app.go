package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
	"github.com/dmitrijs2005/gophadmin/internal/client/services"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/filex"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dustin/go-humanize"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	session  *session.Manager
	api      client.Client
	auth     services.AuthService
	users    services.UserService
	settings *services.SettingsService
	notify   *Notifier
	nav      *router.Navigator
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the session database, restores any persisted session and
// connects the API client to it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dsn, err := filex.EnsureParentDir(c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", dsn, "error", err)
		return nil, err
	}

	sess := session.NewManager(session.NewSQLStore(db), logger.With("component", "session"))
	if err := sess.Hydrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithTokenSource(sess),
		client.WithLogger(logger.With("component", "api")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, logger, sess, api, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, sess *session.Manager, api client.Client, in io.Reader, out io.Writer) *App {
	notify := NewNotifier(out)
	a := &App{
		config:   c,
		logger:   logger,
		session:  sess,
		api:      api,
		auth:     services.NewAuthService(api, sess, notify, logger),
		users:    services.NewUserService(api, sess, notify, logger),
		settings: services.NewSettingsService(api, sess, notify, logger),
		notify:   notify,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.nav = router.NewNavigator(router.NewGate(router.Routes), sess, a.buildView, logger.With("component", "router"))
	return a
}

// Run shows the start page and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.nav.Close()
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	a.println("Welcome to gophadmin (type 'help' for commands)")
	if err := a.nav.Start(ctx, router.PathRoot); err != nil {
		a.logger.Warn(ctx, "initial navigation failed", "error", err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) status() string {
	name := "anonymous"
	if snap := a.session.Current(); snap.Authenticated() {
		name = snap.User.Name
	}
	return fmt.Sprintf("(%s) %s", name, a.nav.Path())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) Help() string {
	cmds := []string{"help", "goto <path>", "whoami"}
	if a.session.Authenticated() {
		cmds = append(cmds, "logout")
	} else {
		cmds = append(cmds, "login", "register", "reset")
	}
	cmds = append(cmds, "exit")

	out := "Available commands: " + strings.Join(cmds, ", ")
	if v, ok := a.nav.View().(view); ok {
		if local := v.Commands(); len(local) > 0 {
			out += "\nOn this page: " + strings.Join(local, ", ")
		}
	}
	return out
}

// Goto opens path. Views report their own mount failures, so only routing
// errors are notified here.
func (a *App) Goto(ctx context.Context, path string) error {
	err := a.nav.Navigate(ctx, path)
	if errors.Is(err, router.ErrRedirectLoop) {
		a.notify.Error(err.Error())
	}
	return err
}

func (a *App) Whoami() error {
	snap := a.session.Current()
	if !snap.Authenticated() {
		a.println("Not logged in")
		return nil
	}

	u := snap.User
	a.println(fmt.Sprintf("%s <%s> id=%s role=%s", u.Name, u.Email, u.ID, u.Role))
	if info, ok := a.session.TokenClaims(); ok && !info.ExpiresAt.IsZero() {
		a.println("Token expires " + humanize.Time(info.ExpiresAt))
	}
	return nil
}

// Logout ends the session. The router then moves away from protected pages
// on its own.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.notify.Error("failed to clear the stored session")
		return err
	}
	a.notify.Success("logged out")
	return nil
}

var shortcuts = map[string]string{
	"login":    router.PathLogin,
	"register": router.PathRegister,
	"reset":    router.PathForgot,
}

// Shortcut opens the public page that owns cmd and runs cmd there.
func (a *App) Shortcut(ctx context.Context, cmd string) error {
	if path, ok := shortcuts[cmd]; ok {
		if err := a.Goto(ctx, path); err != nil {
			return err
		}
	}
	_, err := a.Dispatch(ctx, cmd, nil)
	return err
}

// Dispatch forwards cmd to the view on screen. handled is false when the
// view does not know cmd.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) (handled bool, err error) {
	v, ok := a.nav.View().(view)
	if !ok {
		return false, nil
	}
	return v.Handle(ctx, cmd, args)
}
