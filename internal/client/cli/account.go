package cli

import (
	"context"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/client/models"
)

func (a *App) whoami(ctx context.Context) error {
	u, err := a.store.CurrentUser(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "%s (id %d)\n", u.Email, u.ID)
	if u.FullName != "" {
		fmt.Fprintln(a.out, u.FullName)
	}
	if u.IsSuperuser {
		fmt.Fprintln(a.out, "superuser")
	}
	return nil
}

func (a *App) updateAccount(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "New email (blank to keep)", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "New full name (blank to keep)", a.out)
	if err != nil {
		return err
	}

	var in models.UserUpdateMe
	if email != "" {
		in.Email = &email
	}
	if fullName != "" {
		in.FullName = &fullName
	}

	if err := a.store.UpdateMe(ctx, in); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Account updated")
	return nil
}

func (a *App) changePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := getPassword(a.out, "New password: ")
	if err != nil {
		return err
	}

	if err := a.store.ChangePassword(ctx, current, newPassword); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

func (a *App) deleteAccount(ctx context.Context) error {
	ok, err := getYesNo(a.reader, "Permanently delete your account?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.session.DeleteAccount(ctx); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Account deleted, session closed")
	return nil
}
