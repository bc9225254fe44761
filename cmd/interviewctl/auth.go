package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

// authorize prints the consent URL, reads the code the provider shows after
// consent and stores the exchanged token.
func (c *cli) authorize(ctx context.Context, tokens repo.TokenStore) error {
	a, err := c.authorizer(tokens)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "🔗 Go to the following link in your browser then type the authorization code:\n%s\n", a.AuthURL())

	var code string
	if _, err := fmt.Fscan(c.in, &code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}
	if err := a.Exchange(ctx, code); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(c.out, "✅ calendar access stored for %q\n", a.Principal())
	return nil
}

func (c *cli) authStatus(ctx context.Context, tokens repo.TokenStore) error {
	a, err := c.authorizer(tokens)
	if err != nil {
		return err
	}
	_, err = a.EnsureAuthorized(ctx)
	var authErr *domain.AuthorizationRequiredError
	switch {
	case err == nil:
		color.New(color.FgGreen).Fprintf(c.out, "✅ authorized as %q\n", a.Principal())
		return nil
	case errors.As(err, &authErr):
		color.New(color.FgYellow).Fprintf(c.out, "⚠️  not authorized, visit:\n%s\n", authErr.URL)
		return nil
	default:
		return err
	}
}
