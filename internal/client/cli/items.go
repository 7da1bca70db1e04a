package cli

import (
	"context"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/client/models"
)

func (a *App) listItems(ctx context.Context) error {
	l, err := a.store.Items(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "%d item(s)\n", l.Count)
	for _, it := range l.Data {
		fmt.Fprintf(a.out, "%6d  %-30s %s\n", it.ID, it.Title, it.Description)
	}
	return nil
}

func (a *App) addItem(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.store.CreateItem(ctx, models.ItemCreate{Title: title, Description: description}); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Item created")
	return nil
}

func (a *App) editItem(ctx context.Context) error {
	id, err := getID(a.reader, "Item id", a.out)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "New title (blank to keep)", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (blank to keep)", a.out)
	if err != nil {
		return err
	}

	var in models.ItemUpdate
	if title != "" {
		in.Title = &title
	}
	if description != "" {
		in.Description = &description
	}

	if err := a.store.UpdateItem(ctx, id, in); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Item updated")
	return nil
}

func (a *App) deleteItem(ctx context.Context) error {
	id, err := getID(a.reader, "Item id", a.out)
	if err != nil {
		return err
	}
	ok, err := getYesNo(a.reader, fmt.Sprintf("Delete item %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.store.DeleteItem(ctx, id); err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintln(a.out, "Item deleted")
	return nil
}
