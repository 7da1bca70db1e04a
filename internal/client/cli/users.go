package cli

import (
	"context"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/client/models"
)

func (a *App) listUsers(ctx context.Context) error {
	l, err := a.store.Users(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "%d user(s)\n", l.Count)
	for _, u := range l.Data {
		flags := ""
		if u.IsSuperuser {
			flags += " [superuser]"
		}
		if !u.IsActive {
			flags += " [inactive]"
		}
		fmt.Fprintf(a.out, "%6d  %-30s %s%s\n", u.ID, u.Email, u.FullName, flags)
	}
	return nil
}

func (a *App) addUser(ctx context.Context) error {
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
	super, err := getYesNo(a.reader, "Superuser?", a.out)
	if err != nil {
		return err
	}

	in := models.UserCreate{Email: email, Password: password, FullName: fullName, IsActive: true, IsSuperuser: super}
	if err := a.store.CreateUser(ctx, in); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "User created")
	return nil
}

func (a *App) editUser(ctx context.Context) error {
	id, err := getID(a.reader, "User id", a.out)
	if err != nil {
		return err
	}

	// Blank answers leave the field unchanged.
	email, err := getSimpleText(a.reader, "New email (blank to keep)", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "New full name (blank to keep)", a.out)
	if err != nil {
		return err
	}

	var in models.UserUpdate
	if email != "" {
		in.Email = &email
	}
	if fullName != "" {
		in.FullName = &fullName
	}

	if err := a.store.UpdateUser(ctx, id, in); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "User updated")
	return nil
}

func (a *App) deleteUser(ctx context.Context) error {
	id, err := getID(a.reader, "User id", a.out)
	if err != nil {
		return err
	}
	ok, err := getYesNo(a.reader, fmt.Sprintf("Delete user %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.store.DeleteUser(ctx, id); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "User deleted")
	return nil
}
