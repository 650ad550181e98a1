package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"missionctl/internal/config"
	"missionctl/internal/logging"
	"missionctl/internal/theme"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	APIURL      string           `help:"Backend base URL" env:"MISSIONCTL_API_URL" placeholder:"URL"`

	Run            RunCmd            `cmd:"" help:"Start the missionctl dashboard (default)" default:"1"`
	Map            MapCmd            `cmd:"map" help:"Open the live tracking map directly"`
	Login          LoginCmd          `cmd:"login" help:"Sign in and store the session"`
	Logout         LogoutCmd         `cmd:"logout" help:"Sign out and clear stored credentials"`
	Whoami         WhoamiCmd         `cmd:"whoami" help:"Show the current user and permissions"`
	ChangePassword ChangePasswordCmd `cmd:"change-password" help:"Change the current user's password"`
	Missions       MissionsCmd       `cmd:"missions" help:"Manage missions (list, add, del, set, assign)"`
	Directions     DirectionsCmd     `cmd:"directions" help:"Manage directions (list, add, del, set)"`
	Directeurs     DirecteursCmd     `cmd:"directeurs" help:"Manage directeurs (list, add, del)"`
	Users          UsersCmd          `cmd:"users" help:"Manage users (list, add, del)"`
	Collabs        CollabsCmd        `cmd:"collabs" help:"List collaborators"`
	Serve          ServeCmd          `cmd:"serve" help:"Serve the dashboard over SSH"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

const defaultAPIURL = "http://localhost:8000"

// AfterApply loads settings, initializes logging and builds the container.
// Precedence for each knob: CLI flag > env var > settings.json > default.
func (c *CLI) AfterApply() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	c.settings = settings

	if c.MaxLogFiles == 1000 {
		if _, hasEnv := os.LookupEnv("MISSIONCTL_MAX_LOG_FILES"); !hasEnv {
			if settings.MaxLogFiles != nil {
				c.MaxLogFiles = *settings.MaxLogFiles
			}
		}
	}

	if !c.Debug {
		if _, hasEnv := os.LookupEnv("MISSIONCTL_DEBUG"); !hasEnv {
			if settings.Debug != nil && *settings.Debug {
				c.Debug = true
			}
		}
	}

	if c.APIURL == "" {
		c.APIURL = settings.APIBaseURL
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}

	colors := []string(settings.StatusColors)
	if len(colors) == 0 {
		colors = theme.DefaultStatusColors
	}
	theme.ApplyStatusColors(colors)

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Environment is set after initialization so child processes inherit
	// the debug settings and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("MISSIONCTL_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("MISSIONCTL_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("MISSIONCTL_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	container, err := NewContainer(c.APIURL, settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

// Settings returns the loaded settings file contents
func (c *CLI) Settings() *config.Settings {
	return c.settings
}

// errNotLoggedIn is returned by commands that need a session when none is
// stored
var errNotLoggedIn = errors.New("not logged in, run 'missionctl login' first")

// requireSession restores the stored session and fails when no user is
// authenticated
func (c *CLI) requireSession(ctx context.Context) error {
	if err := c.Container.SessionService.Startup(ctx); err != nil {
		return err
	}
	if !c.Container.SessionService.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}
