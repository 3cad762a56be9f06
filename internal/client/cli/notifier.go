package cli

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Notifier prints the transient success and error messages that operations
// report. Colours are dropped automatically when w is not a terminal.
type Notifier struct {
	mu   sync.Mutex
	w    io.Writer
	ok   *color.Color
	fail *color.Color
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{
		w:    w,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
	}
}

// DisableColor forces plain output.
func (n *Notifier) DisableColor() {
	n.ok.DisableColor()
	n.fail.DisableColor()
}

func (n *Notifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = n.ok.Fprintln(n.w, "[ok] "+msg)
}

func (n *Notifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = n.fail.Fprintln(n.w, "[error] "+msg)
}
