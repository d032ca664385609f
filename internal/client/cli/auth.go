package cli

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/rpcapi"
)

// Register prompts for account details, creates the account and keeps the
// session that the server issues for it.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return a.fail(err)
	}

	occupation, err := GetSimpleText(a.reader, "Enter occupation", a.out)
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.Register(ctx, rpcapi.RegisterRequest{
		Email:      email,
		Password:   string(password),
		Name:       name,
		Occupation: occupation,
	})
	if err != nil {
		return a.fail(err)
	}

	a.userEmail = u.Email
	a.printf("Registered user #%d (%s)\n", u.ID, u.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}

	a.userEmail = u.Email
	a.printf("Login successful\n")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userEmail = ""
	a.printf("Logged out\n")
	return nil
}
