package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionctl/internal/domain"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	settings, err := loadSettingsFrom(filepath.Join(t.TempDir(), "settings.json"))

	require.NoError(t, err)
	assert.Empty(t, settings.APIBaseURL)
	assert.Equal(t, 10, settings.PollInterval())
}

func TestLoadSettings(t *testing.T) {
	path := writeSettings(t, `{
		"api_base_url": "https://missions.example.com",
		"poll_interval_seconds": 30,
		"map_statuses": ["CREEE", "EN_COURS"]
	}`)

	settings, err := loadSettingsFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "https://missions.example.com", settings.APIBaseURL)
	assert.Equal(t, 30, settings.PollInterval())
	assert.Equal(t, StringArray{"CREEE", "EN_COURS"}, settings.MapStatuses)
}

func TestLoadSettingsInvalidJSON(t *testing.T) {
	path := writeSettings(t, `{not json`)

	_, err := loadSettingsFrom(path)

	assert.Error(t, err)
}

func TestStringArrayCommaSeparated(t *testing.T) {
	path := writeSettings(t, `{"map_statuses": "CREEE, EN_COURS , TERMINEE"}`)

	settings, err := loadSettingsFrom(path)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"CREEE", "EN_COURS", "TERMINEE"}, settings.MapStatuses)
}

func TestMapStatusFilterDropsUnknownStatuses(t *testing.T) {
	settings := &Settings{MapStatuses: StringArray{"en_cours", "BOGUS", " TERMINEE "}}

	assert.Equal(t,
		[]domain.MissionStatus{domain.StatusInProgress, domain.StatusCompleted},
		settings.MapStatusFilter())
}

func TestMapStatusFilterEmptyMeansAll(t *testing.T) {
	assert.Nil(t, (&Settings{}).MapStatusFilter())
}

func TestPollIntervalClampsToOne(t *testing.T) {
	zero := 0
	settings := &Settings{PollIntervalSeconds: &zero}

	assert.Equal(t, 1, settings.PollInterval())
}
