package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"missionctl/internal/logging"
)

// LoginCmd signs in and stores the session
type LoginCmd struct {
	Username string `help:"Login name (prompted when omitted)" short:"u"`
	Password string `help:"Password (prompted when omitted; prefer the prompt)" short:"p"`
}

// Run executes the login command
func (l *LoginCmd) Run(cli *CLI) error {
	if err := l.promptMissing(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := cli.Container.SessionService.Login(ctx, l.Username, l.Password); err != nil {
		return err
	}

	session := cli.Container.SessionService.Current()
	logging.Logger.Info("Logged in via CLI", "login", session.User.Login)
	fmt.Printf("Logged in as %s (%s)\n", session.User.Login, session.User.Role)
	return nil
}

func (l *LoginCmd) promptMissing() error {
	var fields []huh.Field
	if l.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Login").
			Value(&l.Username).
			Validate(requireValue("login")))
	}
	if l.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&l.Password).
			Validate(requireValue("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s required", name)
		}
		return nil
	}
}
