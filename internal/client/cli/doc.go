// Package cli provides the interactive gophadmin console.
//
// It wires configuration, the local session store, the remote API client and
// the application services into a REPL. Every screen of the console is a
// route: the router decides whether the route may be shown for the current
// session, and the REPL forwards commands it does not handle itself to the
// view on screen.
//
// Global commands:
//   - help, goto <path>, whoami, logout, exit | quit
//   - login, register, reset (jump to the public page and run it)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
