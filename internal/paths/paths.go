package paths

import (
	"os"
	"path/filepath"
)

// GetHome returns MISSIONCTL_HOME or ~/.missionctl by default
func GetHome() string {
	home := os.Getenv("MISSIONCTL_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".missionctl"
		}
		return filepath.Join(homeDir, ".missionctl")
	}
	return ExpandPath(home)
}

// GetDBPath returns $MISSIONCTL_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "state.db")
}

// GetSettingsPath returns $MISSIONCTL_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetSSHDir returns $MISSIONCTL_HOME/ssh (host keys for the serve command)
func GetSSHDir() string {
	return filepath.Join(GetHome(), "ssh")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
