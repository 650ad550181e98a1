package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"missionctl/internal/ports"
)

// DirectionsCmd manages directions
type DirectionsCmd struct {
	List DirectionsListCmd `cmd:"list" help:"List directions" default:"1"`
	Add  DirectionsAddCmd  `cmd:"add" help:"Create a direction"`
	Del  DirectionsDelCmd  `cmd:"del" help:"Delete a direction"`
	Set  DirectionsSetCmd  `cmd:"set" help:"Update a direction"`
}

// DirectionsListCmd lists directions
type DirectionsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Page   int    `help:"Page number" default:"1"`
	Size   int    `help:"Page size" default:"50"`
}

// Run executes the list command
func (d *DirectionsListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	page, err := cli.Container.AdminService.ListDirections(ctx, ports.Page{Page: d.Page, Size: d.Size})
	if err != nil {
		return fmt.Errorf("failed to list directions: %w", err)
	}

	if d.Format == "json" {
		return printJSON(page.Items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOM\tDESCRIPTION")
	for _, direction := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", direction.ID, direction.Nom, direction.Description)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d directions\n", page.Total)
	return nil
}

// DirectionsAddCmd creates a direction
type DirectionsAddCmd struct {
	Nom         string `arg:"" help:"Direction name"`
	Description string `help:"Description"`
}

// Run executes the add command
func (d *DirectionsAddCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	direction, err := cli.Container.AdminService.CreateDirection(ctx, ports.DirectionInput{
		Nom:         d.Nom,
		Description: d.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to create direction: %w", err)
	}
	fmt.Printf("Created direction #%d %q\n", direction.ID, direction.Nom)
	return nil
}

// DirectionsDelCmd deletes a direction
type DirectionsDelCmd struct {
	ID int `arg:"" help:"Direction id"`
}

// Run executes the del command
func (d *DirectionsDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}
	if err := cli.Container.AdminService.DeleteDirection(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to delete direction: %w", err)
	}
	fmt.Printf("Deleted direction #%d\n", d.ID)
	return nil
}

// DirectionsSetCmd updates a direction
type DirectionsSetCmd struct {
	ID          int    `arg:"" help:"Direction id"`
	Nom         string `help:"New name" required:""`
	Description string `help:"New description"`
}

// Run executes the set command
func (d *DirectionsSetCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	direction, err := cli.Container.AdminService.UpdateDirection(ctx, d.ID, ports.DirectionInput{
		Nom:         d.Nom,
		Description: d.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to update direction: %w", err)
	}
	fmt.Printf("Updated direction #%d\n", direction.ID)
	return nil
}
