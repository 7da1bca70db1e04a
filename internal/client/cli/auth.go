package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/opsdeck/opsdeck/internal/client/api"
)

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintln(a.out, "Logged in as "+email)
	return nil
}

// SignUp registers a new account and logs it in.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Full name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.SignUp(ctx, email, password, fullName); err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintln(a.out, "Account created, you are now logged in")
	return nil
}

// Logout closes the session locally. No server call is made.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// RecoverPassword requests a reset link for an email address.
func (a *App) RecoverPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if err := a.session.RecoverPassword(ctx, email); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Password recovery email sent")
	return nil
}

// ResetPassword completes a recovery using the token from the reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Reset token (from the link's token= parameter)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "New password: ")
	if err != nil {
		return err
	}
	if err := a.session.ResetPassword(ctx, token, password); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Password updated, you can log in now")
	return nil
}

// reportError prints a failure in terms a user can act on, keeping the
// taxonomy visible: rejected credentials, invalid input, unreachable
// server. A 401/403 while a session is open means the server no longer
// accepts the stored token, so the session is destroyed on the spot.
func (a *App) reportError(err error) {
	var ae *api.AuthError
	var ve *api.ValidationError
	var ne *api.NetworkError

	switch {
	case errors.As(err, &ae):
		if a.session.IsLoggedIn() && (ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden) {
			a.session.HandleAuthRejection()
			fmt.Fprintln(a.out, "Session rejected by the server ("+ae.Detail+"), logged out")
			return
		}
		fmt.Fprintln(a.out, "Not allowed: "+ae.Detail)
	case errors.As(err, &ve):
		fmt.Fprintln(a.out, "Invalid input: "+ve.Error())
	case errors.As(err, &ne):
		fmt.Fprintln(a.out, "Could not reach the server, try again later")
	default:
		fmt.Fprintln(a.out, "Error: "+err.Error())
	}
}
