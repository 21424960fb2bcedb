package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Bars(ctx context.Context, query string) error
	Bar(ctx context.Context, id string) error
	Menu(ctx context.Context, barID string) error
	Events(ctx context.Context) error
	Review(ctx context.Context, barID string) error
	Favorites(ctx context.Context) error
	AddFavorite(ctx context.Context, barID string) error
	RemoveFavorite(ctx context.Context, barID string) error
}

// runREPL starts a simple read-eval-print loop for the TapMap CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tapmap %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		firstArg := ""
		if len(args) > 0 {
			firstArg = args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: bars, bar <id>, menu <barID>, events, review <barID>, favs, fav <barID>, unfav <barID>, profile, edit, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, bars, bar <id>, menu <barID>, events, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit":
			_ = a.EditProfile(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "bars":
			_ = a.Bars(ctx, strings.Join(args, " "))

		case "bar":
			if firstArg == "" {
				printlnFn("Usage: bar <id>")
				continue
			}
			_ = a.Bar(ctx, firstArg)

		case "menu":
			if firstArg == "" {
				printlnFn("Usage: menu <barID>")
				continue
			}
			_ = a.Menu(ctx, firstArg)

		case "events":
			_ = a.Events(ctx)

		case "review":
			if firstArg == "" {
				printlnFn("Usage: review <barID>")
				continue
			}
			_ = a.Review(ctx, firstArg)

		case "favs":
			_ = a.Favorites(ctx)

		case "fav":
			if firstArg == "" {
				printlnFn("Usage: fav <barID>")
				continue
			}
			_ = a.AddFavorite(ctx, firstArg)

		case "unfav":
			if firstArg == "" {
				printlnFn("Usage: unfav <barID>")
				continue
			}
			_ = a.RemoveFavorite(ctx, firstArg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
