package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.user.Name, a.user.Phone)
}

// Root runs the REPL on standard input. The banner is only shown when
// standard input is a terminal, so scripted sessions stay quiet.
func (a *App) Root(ctx context.Context) {
	if isTerminal(int(os.Stdin.Fd())) {
		printlnFn("Welcome to Magic Letters (type 'help' for commands)")
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
