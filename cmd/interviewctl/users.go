package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"interview-scheduler/internal/directory"
	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

func (c *cli) users(ctx context.Context, store repo.UserStore, args []string) error {
	dir := directory.New(store)
	if len(args) == 0 {
		return fmt.Errorf("users needs a subcommand: add or list")
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: users add <name> <email>")
		}
		u, err := dir.Register(ctx, &domain.User{Username: args[1], Email: args[2]})
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(c.out, "✅ added user %d %s <%s>\n", u.ID, u.Username, u.Email)
		return nil
	case "list":
		users, err := dir.ListAll(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Fprintln(c.out, "no users registered")
			return nil
		}
		fmt.Fprintln(c.out, "📋 registered users:")
		for _, u := range users {
			fmt.Fprintf(c.out, "  👤 %d %s <%s>\n", u.ID, u.Username, u.Email)
		}
		return nil
	default:
		return fmt.Errorf("unknown users subcommand: %s", args[0])
	}
}
