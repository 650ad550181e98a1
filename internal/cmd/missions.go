package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"missionctl/internal/domain"
	"missionctl/internal/ports"
)

// MissionsCmd manages missions
type MissionsCmd struct {
	List         MissionsListCmd         `cmd:"list" help:"List missions" default:"1"`
	Add          MissionsAddCmd          `cmd:"add" help:"Create a mission"`
	Del          MissionsDelCmd          `cmd:"del" help:"Delete a mission"`
	Set          MissionsSetCmd          `cmd:"set" help:"Update a mission"`
	Assign       MissionsAssignCmd       `cmd:"assign" help:"Assign a collaborator to a mission"`
	Affectations MissionsAffectationsCmd `cmd:"affectations" help:"List a mission's collaborator assignments"`
}

// MissionsListCmd lists missions
type MissionsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Page   int    `help:"Page number" default:"1"`
	Size   int    `help:"Page size" default:"50"`
}

// Run executes the list command
func (m *MissionsListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	page, err := cli.Container.AdminService.ListMissions(ctx, ports.Page{Page: m.Page, Size: m.Size})
	if err != nil {
		return fmt.Errorf("failed to list missions: %w", err)
	}

	if m.Format == "json" {
		return printJSON(page.Items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOBJET\tSTATUT\tDEBUT\tFIN\tTRANSPORT")
	for _, mission := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			mission.ID,
			mission.Objet,
			mission.Statut,
			mission.DateDebut.Format("2006-01-02"),
			mission.DateFin.Format("2006-01-02"),
			mission.MoyenTransport)
	}
	w.Flush()

	fmt.Printf("\nPage %d/%d, %d missions total\n", m.Page, page.Pages, page.Total)
	return nil
}

// MissionsAddCmd creates a mission
type MissionsAddCmd struct {
	Objet       string `arg:"" help:"Mission subject"`
	DirecteurID int    `help:"Responsible directeur id" required:""`
	DateDebut   string `help:"Start date (YYYY-MM-DD)"`
	DateFin     string `help:"End date (YYYY-MM-DD)"`
	Transport   string `help:"Means of transport"`
	VehiculeID  *int   `help:"Vehicle id"`
}

// Run executes the add command
func (m *MissionsAddCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	mission, err := cli.Container.AdminService.CreateMission(ctx, ports.MissionInput{
		Objet:          m.Objet,
		DirecteurID:    m.DirecteurID,
		DateDebut:      m.DateDebut,
		DateFin:        m.DateFin,
		MoyenTransport: m.Transport,
		VehiculeID:     m.VehiculeID,
	})
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}
	fmt.Printf("Created mission #%d %q\n", mission.ID, mission.Objet)
	return nil
}

// MissionsDelCmd deletes a mission
type MissionsDelCmd struct {
	ID int `arg:"" help:"Mission id"`
}

// Run executes the del command
func (m *MissionsDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}
	if err := cli.Container.AdminService.DeleteMission(ctx, m.ID); err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	fmt.Printf("Deleted mission #%d\n", m.ID)
	return nil
}

// MissionsSetCmd updates a mission
type MissionsSetCmd struct {
	ID        int    `arg:"" help:"Mission id"`
	Objet     string `help:"New subject"`
	Statut    string `help:"New status" enum:",CREEE,EN_COURS,TERMINEE,ANNULEE,SUSPENDUE" default:""`
	DateDebut string `help:"New start date (YYYY-MM-DD)"`
	DateFin   string `help:"New end date (YYYY-MM-DD)"`
	Transport string `help:"New means of transport"`
}

// Run executes the set command
func (m *MissionsSetCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	mission, err := cli.Container.AdminService.UpdateMission(ctx, m.ID, ports.MissionInput{
		Objet:          m.Objet,
		Statut:         m.Statut,
		DateDebut:      m.DateDebut,
		DateFin:        m.DateFin,
		MoyenTransport: m.Transport,
	})
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	fmt.Printf("Updated mission #%d, status %s\n", mission.ID, mission.Statut)
	return nil
}

// MissionsAssignCmd assigns a collaborator to a mission
type MissionsAssignCmd struct {
	ID              int `arg:"" help:"Mission id"`
	CollaborateurID int `help:"Collaborator id" required:""`
	Jours           int `help:"Days on mission" default:"1"`
	Nuits           int `help:"Nights on mission" default:"0"`
}

// Run executes the assign command
func (m *MissionsAssignCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	affectation, err := cli.Container.AdminService.AssignCollaborateur(ctx, m.ID, ports.AffectationInput{
		CollaborateurID: m.CollaborateurID,
		NbJours:         m.Jours,
		NbNuits:         m.Nuits,
	})
	if err != nil {
		return fmt.Errorf("failed to assign collaborator: %w", err)
	}
	fmt.Printf("Assigned collaborator %d to mission #%d (affectation %d)\n",
		m.CollaborateurID, m.ID, affectation.ID)
	return nil
}

// MissionsAffectationsCmd lists a mission's collaborator assignments
type MissionsAffectationsCmd struct {
	ID     int    `arg:"" help:"Mission id"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the affectations command
func (m *MissionsAffectationsCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx); err != nil {
		return err
	}

	affectations, err := cli.Container.AdminService.ListAffectations(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("failed to list affectations: %w", err)
	}

	if m.Format == "json" {
		return printJSON(affectations)
	}
	return printAffectations(affectations)
}

func printAffectations(affectations []domain.Affectation) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLLABORATEUR\tJOURS\tNUITS\tMONTANT")
	for _, a := range affectations {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f\n",
			a.ID, a.CollaborateurID, a.NbJours, a.NbNuits, a.Montant)
	}
	w.Flush()
	return nil
}

// printJSON renders any payload as indented JSON
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
