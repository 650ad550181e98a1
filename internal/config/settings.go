package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"missionctl/internal/domain"
	"missionctl/internal/paths"
)

// Settings represents the structure of ~/.missionctl/settings.json
type Settings struct {
	APIBaseURL          string      `json:"api_base_url,omitempty"`
	DBPath              string      `json:"db_path,omitempty"`
	Debug               *bool       `json:"debug,omitempty"`
	MaxLogFiles         *int        `json:"max_log_files,omitempty"`
	PollIntervalSeconds *int        `json:"poll_interval_seconds,omitempty"`
	MapStatuses         StringArray `json:"map_statuses,omitempty"`
	StatusColors        StringArray `json:"status_colors,omitempty"`
	SSHHost             string      `json:"ssh_host,omitempty"`
	SSHPort             *int        `json:"ssh_port,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $MISSIONCTL_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return loadSettingsFrom(paths.GetSettingsPath())
}

func loadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = paths.ExpandPath(settings.DBPath)
	}

	return &settings, nil
}

// MapStatusFilter returns the configured map status filter as mission
// statuses, dropping entries the client does not know. Empty means all.
func (s *Settings) MapStatusFilter() []domain.MissionStatus {
	var statuses []domain.MissionStatus
	for _, raw := range s.MapStatuses {
		candidate := domain.MissionStatus(strings.ToUpper(strings.TrimSpace(raw)))
		for _, known := range domain.KnownStatuses {
			if candidate == known {
				statuses = append(statuses, candidate)
				break
			}
		}
	}
	return statuses
}

// PollInterval returns the configured poll interval in seconds, defaulting
// to 10 and clamping anything below 1
func (s *Settings) PollInterval() int {
	if s.PollIntervalSeconds == nil {
		return 10
	}
	if *s.PollIntervalSeconds < 1 {
		return 1
	}
	return *s.PollIntervalSeconds
}
