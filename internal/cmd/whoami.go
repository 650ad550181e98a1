package cmd

import (
	"context"
	"fmt"
	"sort"
)

// WhoamiCmd shows the current user and permissions
type WhoamiCmd struct{}

// Run executes the whoami command
func (w *WhoamiCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	session := cli.Container.SessionService.Current()
	fmt.Printf("Login: %s\n", session.User.Login)
	fmt.Printf("Role:  %s\n", session.User.Role)
	if session.User.DirectionNom != nil {
		fmt.Printf("Direction: %s\n", *session.User.DirectionNom)
	}

	perms := make([]string, 0, len(session.Permissions))
	for p := range session.Permissions {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	fmt.Println("Permissions:")
	for _, p := range perms {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
