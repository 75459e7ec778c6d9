package structs

import (
	"slices"
	"time"
)

const (
	RoleSuperadmin = "superadmin"
	RoleOtter      = "otter"
	RoleSquad5     = "squad5"

	SquadSales = "squad5"
)

// Session is what the session boundary hands us: who, which role, which squads
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Squads    []string  `json:"squads"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) InSquad(squad string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Squads, squad)
}

// SessionState pairs the session with its loading flag. While Loading is true
// the session value is meaningless.
type SessionState struct {
	Session *Session
	Loading bool
}
