package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ChangePasswordCmd changes the current user's password
type ChangePasswordCmd struct{}

// Run executes the change-password command
func (c *ChangePasswordCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	var current, next, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Current password").
			EchoMode(huh.EchoModePassword).
			Value(&current).
			Validate(requireValue("current password")),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Value(&next).
			Validate(requireValue("new password")),
		huh.NewInput().
			Title("Confirm new password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm).
			Validate(func(s string) error {
				if s != next {
					return fmt.Errorf("passwords do not match")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if err := cli.Container.SessionService.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Println("Password changed")
	return nil
}
