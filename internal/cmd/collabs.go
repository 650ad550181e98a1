package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"missionctl/internal/ports"
)

// CollabsCmd lists collaborators
type CollabsCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Page   int    `help:"Page number" default:"1"`
	Size   int    `help:"Page size" default:"50"`
}

// Run executes the collabs command
func (c *CollabsCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	page, err := cli.Container.AdminService.ListCollaborateurs(ctx, ports.Page{Page: c.Page, Size: c.Size})
	if err != nil {
		return fmt.Errorf("failed to list collaborators: %w", err)
	}

	if c.Format == "json" {
		return printJSON(page.Items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATRICULE\tNOM\tPRENOM")
	for _, collab := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", collab.ID, collab.Matricule, collab.Nom, collab.Prenom)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d collaborators\n", page.Total)
	return nil
}
