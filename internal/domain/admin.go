package domain

import "time"

// Direction is an organizational directorate
type Direction struct {
	ID          int    `json:"id"`
	Nom         string `json:"nom"`
	Description string `json:"description,omitempty"`
}

// Directeur heads a direction; linked to a backend user account
type Directeur struct {
	ID            int    `json:"id"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	DirectionID   int    `json:"direction_id"`
	UtilisateurID int    `json:"utilisateur_id"`
	DirectionNom  string `json:"direction_nom,omitempty"`
}

// Utilisateur is a backend user account
type Utilisateur struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Collaborateur is a field employee who can be assigned to missions
type Collaborateur struct {
	ID        int    `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Matricule string `json:"matricule"`
}

// Affectation assigns a collaborator to a mission and carries the per-diem
// allowance counters the backend uses to compute the monetary amount.
type Affectation struct {
	ID              int     `json:"id"`
	MissionID       int     `json:"mission_id"`
	CollaborateurID int     `json:"collaborateur_id"`
	NbJours         int     `json:"nb_jours"`
	NbNuits         int     `json:"nb_nuits"`
	Montant         float64 `json:"montant"`
}
