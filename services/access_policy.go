package services

import (
	"catalogo_server/structs"
	"slices"
)

// Area is a gated part of the admin surface
type Area string

const (
	AreaSales   Area = "sales"
	AreaCatalog Area = "catalog"
)

func (a Area) IsValid() bool {
	return a == AreaSales || a == AreaCatalog
}

type AccessOutcome string

const (
	AccessPending AccessOutcome = "pending" // session still loading: neither admit nor redirect
	AccessAdmit   AccessOutcome = "admit"
	AccessDeny    AccessOutcome = "deny"
)

// RootRedirect is where denied callers are sent
const RootRedirect = "/"

type AccessDecision struct {
	Outcome    AccessOutcome `json:"outcome"`
	RedirectTo string        `json:"redirect_to,omitempty"`
}

func (d AccessDecision) Admitted() bool {
	return d.Outcome == AccessAdmit
}

var (
	salesRoles   = []string{structs.RoleSuperadmin, structs.RoleOtter, structs.RoleSquad5}
	catalogRoles = []string{structs.RoleSuperadmin, structs.RoleOtter}
)

// EvaluateAccess decides admission to area for the given session state. It is
// a pure function; callers act on the decision.
func EvaluateAccess(state structs.SessionState, area Area) AccessDecision {
	if state.Loading {
		return AccessDecision{Outcome: AccessPending}
	}
	session := state.Session
	if session == nil {
		return deny()
	}

	admitted := false
	switch area {
	case AreaSales:
		admitted = salesAdmits(session)
	case AreaCatalog:
		admitted = slices.Contains(catalogRoles, session.Role) || salesAdmits(session)
	}

	if !admitted {
		return deny()
	}
	return AccessDecision{Outcome: AccessAdmit}
}

func salesAdmits(session *structs.Session) bool {
	return slices.Contains(salesRoles, session.Role) || session.InSquad(structs.SquadSales)
}

func deny() AccessDecision {
	return AccessDecision{Outcome: AccessDeny, RedirectTo: RootRedirect}
}
