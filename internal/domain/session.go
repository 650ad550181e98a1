package domain

// UserInfo is the authenticated user identity returned by the backend
type UserInfo struct {
	ID           int     `json:"id"`
	Login        string  `json:"login"`
	Role         string  `json:"role"`
	DirectionID  *int    `json:"direction_id"`
	DirectionNom *string `json:"direction_nom"`
}

// Capability strings consumed by the UI gate. The backend derives them from
// the user's role; the client only ever compares them by exact match.
const (
	PermMissionRead     = "mission:read"
	PermMissionCreate   = "mission:create"
	PermMissionUpdate   = "mission:update"
	PermMissionDelete   = "mission:delete"
	PermDirectionRead   = "direction:read"
	PermDirectionCreate = "direction:create"
	PermDirectionUpdate = "direction:update"
	PermDirectionDelete = "direction:delete"
	PermDirecteurRead   = "directeur:read"
	PermDirecteurCreate = "directeur:create"
	PermDirecteurUpdate = "directeur:update"
	PermDirecteurDelete = "directeur:delete"
	PermUserRead        = "user:read"
	PermUserCreate      = "user:create"
	PermUserUpdate      = "user:update"
	PermUserDelete      = "user:delete"
	PermCarteRead       = "carte:read"
	PermCollabMission   = "collab:mission:read"
)

// PermissionSet is the set of capability strings granted to the current user
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the backend's permission list
func NewPermissionSet(permissions []string) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the capability is in the set. Safe on a nil set.
func (s PermissionSet) Has(capability string) bool {
	_, ok := s[capability]
	return ok
}

// Session is the current authentication state. It is owned by the session
// service and passed by reference to components that need it; it is never
// a package-level global.
type Session struct {
	User        *UserInfo
	Permissions PermissionSet

	// Ready becomes true exactly once per authentication attempt (success
	// or failure) and only reverts when a new attempt begins.
	Ready bool

	// Loading is true while an authentication attempt is in flight.
	// Ready and Loading are always updated together.
	Loading bool
}

// Authenticated reports whether a user identity is present
func (s *Session) Authenticated() bool {
	return s.User != nil
}
