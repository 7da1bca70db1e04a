package cli

import (
	"context"
	"errors"
)

// ErrLoginRequired is returned by a guarded command instead of running its
// body when no session is active.
var ErrLoginRequired = errors.New("login required")

// Guard gates entry into authenticated views. The check is synchronous and
// performs no I/O, so it always runs before the guarded command produces
// any output.
type Guard struct {
	session interface{ IsLoggedIn() bool }
}

func NewGuard(session interface{ IsLoggedIn() bool }) *Guard {
	return &Guard{session: session}
}

// Protect wraps cmd so it only runs with an active session.
func (g *Guard) Protect(cmd func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if !g.session.IsLoggedIn() {
			return ErrLoginRequired
		}
		return cmd(ctx)
	}
}
