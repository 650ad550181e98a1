package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"missionctl/internal/domain"
	"missionctl/internal/theme"
)

// missionItem adapts a mission to the bubbles list
type missionItem struct {
	mission domain.Mission
}

func (i missionItem) FilterValue() string {
	return i.mission.Objet
}

func (i missionItem) Title() string {
	title := fmt.Sprintf("#%d %s", i.mission.ID, i.mission.Objet)
	badge := theme.StatusStyle(i.mission.Statut).Render(string(i.mission.Statut))
	if i.mission.HasAnomalies() {
		badge += " " + theme.AnomalyStyle.Render("⚠")
	}
	return title + "  " + badge
}

func (i missionItem) Description() string {
	var parts []string
	if i.mission.DirecteurNom != "" {
		parts = append(parts, fmt.Sprintf("%s %s", i.mission.DirecteurPrenom, i.mission.DirecteurNom))
	}
	if i.mission.DirectionNom != "" {
		parts = append(parts, i.mission.DirectionNom)
	}
	if i.mission.VehiculeImmatriculation != nil {
		parts = append(parts, *i.mission.VehiculeImmatriculation)
	}
	pos := i.mission.DisplayPosition()
	parts = append(parts, fmt.Sprintf("%.4f, %.4f", pos.Lat, pos.Lng))
	return strings.Join(parts, " · ")
}

// MissionList shows the missions of the latest snapshot with an optional
// status filter cycled by the user
type MissionList struct {
	list         list.Model
	missions     []domain.Mission
	statusFilter domain.MissionStatus // empty means all
}

// NewMissionList creates the list component
func NewMissionList() *MissionList {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Missions"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Styles.Title = theme.TitleStyle
	return &MissionList{list: l}
}

// SetMissions replaces the backing data and re-applies the status filter
func (ml *MissionList) SetMissions(missions []domain.Mission) {
	ml.missions = missions
	ml.apply()
}

// CycleStatusFilter steps through all → each known status → all
func (ml *MissionList) CycleStatusFilter() {
	if ml.statusFilter == "" {
		ml.statusFilter = domain.KnownStatuses[0]
	} else {
		next := domain.MissionStatus("")
		for i, s := range domain.KnownStatuses {
			if s == ml.statusFilter && i+1 < len(domain.KnownStatuses) {
				next = domain.KnownStatuses[i+1]
				break
			}
		}
		ml.statusFilter = next
	}
	ml.apply()
}

func (ml *MissionList) apply() {
	items := make([]list.Item, 0, len(ml.missions))
	for _, m := range ml.missions {
		if ml.statusFilter != "" && m.Statut != ml.statusFilter {
			continue
		}
		items = append(items, missionItem{mission: m})
	}
	ml.list.SetItems(items)

	if ml.statusFilter == "" {
		ml.list.Title = "Missions"
	} else {
		ml.list.Title = fmt.Sprintf("Missions · %s", ml.statusFilter)
	}
}

// SelectedMission returns the mission under the cursor, nil when none
func (ml *MissionList) SelectedMission() *domain.Mission {
	item, ok := ml.list.SelectedItem().(missionItem)
	if !ok {
		return nil
	}
	m := item.mission
	return &m
}

// SetSize updates the list dimensions
func (ml *MissionList) SetSize(width, height int) {
	ml.list.SetSize(width, height)
}

// Update delegates to the underlying list
func (ml *MissionList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	ml.list, cmd = ml.list.Update(msg)
	return cmd
}

// View renders the list
func (ml *MissionList) View() string {
	return ml.list.View()
}
