package cmd

import (
	"missionctl/internal/adapters/api"
	"missionctl/internal/adapters/storage"
	"missionctl/internal/paths"
	"missionctl/internal/ports"
	"missionctl/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	AdminService   *services.AdminService
	SessionService *services.SessionService

	// API boundaries, for components that build their own services
	AuthAPI ports.AuthAPI
	MapAPI  ports.MapAPI

	// Internal - for cleanup only
	creds ports.CredentialStore
}

// NewContainer creates a new Container with all dependencies wired. An
// empty dbPath falls back to the default location.
func NewContainer(apiBaseURL, dbPath string) (*Container, error) {
	if dbPath == "" {
		dbPath = paths.GetDBPath()
	}
	tokens := storage.NewMemoryTokenStore()
	creds, err := storage.NewSQLiteCredentialStore(dbPath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(apiBaseURL, tokens)
	authAPI := api.NewAuthClient(client)
	mapAPI := api.NewMapClient(client)
	adminAPI := api.NewAdminClient(client)

	// The session service registers its refresh and expiry hooks with the
	// request gate on construction
	sessionService := services.NewSessionService(authAPI, tokens, creds, client.Transport())
	adminService := services.NewAdminService(adminAPI, sessionService)

	return &Container{
		AdminService:   adminService,
		SessionService: sessionService,
		AuthAPI:        authAPI,
		MapAPI:         mapAPI,
		creds:          creds,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.creds != nil {
		return c.creds.Close()
	}
	return nil
}
