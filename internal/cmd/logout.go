package cmd

import (
	"context"
	"fmt"
)

// LogoutCmd signs out and clears both credential tiers
type LogoutCmd struct{}

// Run executes the logout command
func (l *LogoutCmd) Run(cli *CLI) error {
	// Restore the access token first so the backend call carries it;
	// logout succeeds locally either way
	if err := cli.Container.SessionService.Startup(context.Background()); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	cli.Container.SessionService.Logout(context.Background())
	fmt.Println("Logged out")
	return nil
}
