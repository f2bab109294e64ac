package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/prospect"
)

// Run executes the key set command.
func (c *KeySetCmd) Run(deps *Dependencies) error {
	account, err := deps.Keys.SaveCredential(deps.Ctx, c.Key)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved API key %s\n", prospect.RedactCredential(c.Key))
	printAccount(deps.Stdout, account)
	return nil
}

// Run executes the key show command.
func (c *KeyShowCmd) Run(deps *Dependencies) error {
	key, err := deps.Credentials.Credential(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, prospect.RedactCredential(key))
	if s, ok := deps.Credentials.(updatedAter); ok {
		if at, err := s.UpdatedAt(deps.Ctx); err == nil {
			fmt.Fprintf(deps.Stdout, "  (set %s)", at.Format(time.DateOnly))
		}
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

// updatedAter is implemented by stores that record when the key was set.
type updatedAter interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}

// Run executes the key test command.
func (c *KeyTestCmd) Run(deps *Dependencies) error {
	key := c.Key
	if key == "" {
		stored, err := deps.Credentials.Credential(deps.Ctx)
		if err != nil {
			return err
		}
		key = stored
	}

	account, err := deps.Keys.CheckAccount(deps.Ctx, key)
	if err != nil {
		return err
	}
	if !account.Valid {
		return prospect.Errorf(prospect.EUNAUTHORIZED, "%s", account.Reason)
	}
	printAccount(deps.Stdout, account)
	return nil
}

// Run executes the key clear command.
func (c *KeyClearCmd) Run(deps *Dependencies) error {
	if err := deps.Credentials.ClearCredential(deps.Ctx); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Removed API key")
	return nil
}

func printAccount(w io.Writer, a *prospect.Account) {
	name := a.FirstName
	if a.LastName != "" {
		name += " " + a.LastName
	}
	if name != "" || a.Email != "" {
		fmt.Fprintf(w, "Account:       %s <%s>\n", name, a.Email)
	}
	fmt.Fprintf(w, "Plan:          %s (level %d)\n", a.PlanName, a.PlanLevel)
	if a.ResetDate != "" {
		fmt.Fprintf(w, "Resets:        %s\n", a.ResetDate)
	}
	fmt.Fprintf(w, "Searches:      %d used, %d available\n", a.Searches.Used, a.Searches.Available)
	fmt.Fprintf(w, "Verifications: %d used, %d available\n", a.Verifications.Used, a.Verifications.Available)
	fmt.Fprintf(w, "Credits:       %d used, %d available\n", a.Credits.Used, a.Credits.Available)
}
