package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"missionctl/internal/ports"
)

// UsersCmd manages backend user accounts
type UsersCmd struct {
	List UsersListCmd `cmd:"list" help:"List users" default:"1"`
	Add  UsersAddCmd  `cmd:"add" help:"Create a user"`
	Del  UsersDelCmd  `cmd:"del" help:"Delete a user"`
}

// UsersListCmd lists users
type UsersListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Page   int    `help:"Page number" default:"1"`
	Size   int    `help:"Page size" default:"50"`
}

// Run executes the list command
func (u *UsersListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	page, err := cli.Container.AdminService.ListUtilisateurs(ctx, ports.Page{Page: u.Page, Size: u.Size})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if u.Format == "json" {
		return printJSON(page.Items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLOGIN\tROLE\tCREATED")
	for _, user := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			user.ID, user.Login, user.Role, user.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d users\n", page.Total)
	return nil
}

// UsersAddCmd creates a user
type UsersAddCmd struct {
	Login    string `arg:"" help:"Login name"`
	Role     string `help:"Account role" required:""`
	Password string `help:"Password (prompted when omitted)"`
}

// Run executes the add command
func (u *UsersAddCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	user, err := cli.Container.AdminService.CreateUtilisateur(ctx, ports.UtilisateurInput{
		Login:    u.Login,
		Password: u.Password,
		Role:     u.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Printf("Created user #%d %s (%s)\n", user.ID, user.Login, user.Role)
	return nil
}

// UsersDelCmd deletes a user
type UsersDelCmd struct {
	ID int `arg:"" help:"User id"`
}

// Run executes the del command
func (u *UsersDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}
	if err := cli.Container.AdminService.DeleteUtilisateur(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	fmt.Printf("Deleted user #%d\n", u.ID)
	return nil
}
