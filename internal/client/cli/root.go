package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.session.IsLoggedIn() {
		return "(authenticated)"
	}
	return ""
}

// Run starts the REPL. Authenticated commands go through the route guard;
// when it rejects, the user is redirected to the login prompt instead of
// seeing any command output.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the opsdeck console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "opsdeck %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return
		}
		a.Dispatch(ctx, line)
	}
}

// Dispatch runs a single command line.
func (a *App) Dispatch(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		a.printHelp()

	case "login":
		_ = a.Login(ctx)
	case "signup":
		_ = a.SignUp(ctx)
	case "logout":
		a.runGuarded(ctx, a.Logout)
	case "recover":
		_ = a.RecoverPassword(ctx)
	case "reset":
		_ = a.ResetPassword(ctx)

	case "whoami":
		a.runGuarded(ctx, a.whoami)
	case "account":
		a.runGuarded(ctx, a.updateAccount)
	case "passwd":
		a.runGuarded(ctx, a.changePassword)
	case "account-delete":
		a.runGuarded(ctx, a.deleteAccount)

	case "users":
		a.runGuarded(ctx, a.listUsers)
	case "useradd":
		a.runGuarded(ctx, a.addUser)
	case "usermod":
		a.runGuarded(ctx, a.editUser)
	case "userdel":
		a.runGuarded(ctx, a.deleteUser)

	case "items":
		a.runGuarded(ctx, a.listItems)
	case "itemadd":
		a.runGuarded(ctx, a.addItem)
	case "itemmod":
		a.runGuarded(ctx, a.editItem)
	case "itemdel":
		a.runGuarded(ctx, a.deleteItem)

	default:
		fmt.Fprintf(a.out, "Unknown command %q, type 'help'\n", cmd)
	}
}

// runGuarded executes cmd behind the route guard. A rejection redirects to
// the login flow.
func (a *App) runGuarded(ctx context.Context, cmd func(context.Context) error) {
	err := a.guard.Protect(cmd)(ctx)
	if errors.Is(err, ErrLoginRequired) {
		fmt.Fprintln(a.out, "Please log in first")
		_ = a.Login(ctx)
	}
}

func (a *App) printHelp() {
	if a.session.IsLoggedIn() {
		fmt.Fprintln(a.out, "Commands: whoami, account, passwd, account-delete, users, useradd, usermod, userdel, items, itemadd, itemmod, itemdel, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Commands: login, signup, recover, reset, exit")
	}
}
