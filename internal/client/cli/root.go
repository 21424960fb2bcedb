package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/tapmap-app/tapmap/internal/client/session"
)

// getStatus renders the prompt fragment describing the current session.
func (a *App) getStatus() string {
	state := a.session.State()
	switch {
	case state.Status == session.StatusAuthenticated && state.User != nil:
		return fmt.Sprintf("(%s)", state.User.Name)
	case state.Status == session.StatusAuthenticated:
		return "(signed in)"
	case state.Status == session.StatusInitializing:
		return "(...)"
	default:
		return ""
	}
}

// Root runs the interactive loop on stdin until EOF or an exit command.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to TapMap CLI (type 'help' for commands)")
	if state := a.session.State(); state.Authenticated() && state.User != nil {
		fmt.Fprintln(a.out, "Signed in as", state.User.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
