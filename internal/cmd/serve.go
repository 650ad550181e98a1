package cmd

import (
	"fmt"

	"missionctl/internal/server"
)

// ServeCmd serves the dashboard over SSH
type ServeCmd struct {
	Host string `help:"Host to bind to" default:"0.0.0.0"`
	Port string `help:"Port to listen on" default:"2222"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	if settings := cli.Settings(); settings != nil {
		if s.Host == "0.0.0.0" && settings.SSHHost != "" {
			s.Host = settings.SSHHost
		}
		if s.Port == "2222" && settings.SSHPort != nil {
			s.Port = fmt.Sprintf("%d", *settings.SSHPort)
		}
	}

	srv, err := server.NewServer(s.Host, s.Port, cli.APIURL, cli.Settings())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
