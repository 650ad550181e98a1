package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"missionctl/internal/ports"
)

// DirecteursCmd manages directeurs
type DirecteursCmd struct {
	List DirecteursListCmd `cmd:"list" help:"List directeurs" default:"1"`
	Add  DirecteursAddCmd  `cmd:"add" help:"Create a directeur"`
	Del  DirecteursDelCmd  `cmd:"del" help:"Delete a directeur"`
}

// DirecteursListCmd lists directeurs
type DirecteursListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Page   int    `help:"Page number" default:"1"`
	Size   int    `help:"Page size" default:"50"`
}

// Run executes the list command
func (d *DirecteursListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	page, err := cli.Container.AdminService.ListDirecteurs(ctx, ports.Page{Page: d.Page, Size: d.Size})
	if err != nil {
		return fmt.Errorf("failed to list directeurs: %w", err)
	}

	if d.Format == "json" {
		return printJSON(page.Items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOM\tPRENOM\tDIRECTION")
	for _, directeur := range page.Items {
		direction := directeur.DirectionNom
		if direction == "" {
			direction = fmt.Sprintf("#%d", directeur.DirectionID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", directeur.ID, directeur.Nom, directeur.Prenom, direction)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d directeurs\n", page.Total)
	return nil
}

// DirecteursAddCmd creates a directeur
type DirecteursAddCmd struct {
	Nom         string `arg:"" help:"Family name"`
	Prenom      string `arg:"" help:"Given name"`
	DirectionID int    `help:"Direction id" required:""`
	Login       string `help:"Account login (created when given)"`
	Password    string `help:"Account password"`
}

// Run executes the add command
func (d *DirecteursAddCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	directeur, err := cli.Container.AdminService.CreateDirecteur(ctx, ports.DirecteurInput{
		Nom:         d.Nom,
		Prenom:      d.Prenom,
		DirectionID: d.DirectionID,
		Login:       d.Login,
		Password:    d.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create directeur: %w", err)
	}
	fmt.Printf("Created directeur #%d %s %s\n", directeur.ID, directeur.Prenom, directeur.Nom)
	return nil
}

// DirecteursDelCmd deletes a directeur
type DirecteursDelCmd struct {
	ID int `arg:"" help:"Directeur id"`
}

// Run executes the del command
func (d *DirecteursDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}
	if err := cli.Container.AdminService.DeleteDirecteur(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to delete directeur: %w", err)
	}
	fmt.Printf("Deleted directeur #%d\n", d.ID)
	return nil
}
