package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Create(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Message(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Drawing(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Pull(ctx context.Context) error
	Push(ctx context.Context) error
	Status(ctx context.Context) error
	Techs(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login [phone], exit"
	helpLoggedIn  = "Available commands: (l)ist [all], create <child-code>, show <id>, message <id>, " +
		"photo add|del <id> <path|slot>, drawing <id> <file>|clear, complete <id>, sync, pull, push, status, whoami, logout, exit"
	helpAdmin = "Administrator: techs [add|update <id>|del <id>]"
)

// runREPL starts a simple read–eval–print loop for the Magic Letters CLI.
//
// It reads a line from r, parses the first token as the command and the
// rest as its arguments, and dispatches to methods on 'a'. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Commands other than help, login and exit require a logged-in user;
// techs additionally requires the administrator. Handler errors are printed
// and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ml %s> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpLoggedIn)
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpLoggedIn)
			default:
				printlnFn(helpLoggedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "login":
			report(a.Login(ctx, args))
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please log in first (login <phone>)")
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "create":
			report(a.Create(ctx, args))
		case "l", "list":
			report(a.List(ctx, args))
		case "show":
			report(a.Show(ctx, args))
		case "message":
			report(a.Message(ctx, args))
		case "photo":
			report(a.Photo(ctx, args))
		case "drawing":
			report(a.Drawing(ctx, args))
		case "complete":
			report(a.Complete(ctx, args))
		case "sync":
			report(a.Sync(ctx))
		case "pull":
			report(a.Pull(ctx))
		case "push":
			report(a.Push(ctx))
		case "status":
			report(a.Status(ctx))
		case "techs":
			if !a.isAdmin() {
				printlnFn("Only the administrator can manage technicians")
				continue
			}
			report(a.Techs(ctx, args))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("error:", err)
	}
}
