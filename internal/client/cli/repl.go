package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help() string
	Goto(ctx context.Context, path string) error
	Whoami() error
	Logout(ctx context.Context) error
	Shortcut(ctx context.Context, cmd string) error
	Dispatch(ctx context.Context, cmd string, args []string) (bool, error)
}

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command, and
// either handles it (global commands) or hands it to the page on screen.
// Everything the loop prints goes to out.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers notify
// the user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }

	for {
		say(fmt.Sprintf("gophadmin %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			say(a.Help())

		case "goto":
			if len(args) == 0 {
				say("Usage: goto <path>")
				continue
			}
			_ = a.Goto(ctx, args[0])

		case "whoami":
			_ = a.Whoami()

		case "logout":
			_ = a.Logout(ctx)

		case "login", "register", "reset":
			_ = a.Shortcut(ctx, cmd)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			if handled, _ := a.Dispatch(ctx, cmd, args); !handled {
				say("Unknown command:", cmd)
			}
		}
	}
}
