package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/userauth/internal/rpcapi"
)

var errNotLoggedIn = errors.New("login required")

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return a.fail(err)
	}

	if len(users) == 0 {
		a.printf("No users\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tOCCUPATION")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Occupation)
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		a.printf("Usage: show <id>\n")
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.GetUser(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	printUser(a, u)
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		a.printf("Usage: update <id>\n")
		return err
	}
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	name, err := GetSimpleText(a.reader, "Enter new name", a.out)
	if err != nil {
		return a.fail(err)
	}

	occupation, err := GetSimpleText(a.reader, "Enter new occupation", a.out)
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.UpdateUser(ctx, id, name, occupation); err != nil {
		return a.fail(err)
	}

	a.printf("User #%d updated\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		a.printf("Usage: delete <id>\n")
		return err
	}
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete user #%d? Type 'yes' to confirm", id), a.out)
	if err != nil {
		return a.fail(err)
	}
	if !strings.EqualFold(answer, "yes") {
		a.printf("Cancelled\n")
		return nil
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.DeleteUser(ctx, id); err != nil {
		return a.fail(err)
	}

	a.printf("User #%d deleted\n", id)
	return nil
}

func printUser(a *App, u *rpcapi.User) {
	a.printf("ID: %d\n", u.ID)
	a.printf("Email: %s\n", u.Email)
	a.printf("Name: %s\n", u.Name)
	a.printf("Occupation: %s\n", u.Occupation)
}
