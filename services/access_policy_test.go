package services

import (
	"catalogo_server/structs"
	"testing"
)

func TestEvaluateAccessSales(t *testing.T) {
	tests := []struct {
		name    string
		session *structs.Session
		want    AccessOutcome
	}{
		{"squad5 role without squads", &structs.Session{Role: "squad5", Squads: []string{}}, AccessAdmit},
		{"buyer in squad5", &structs.Session{Role: "buyer", Squads: []string{"squad5"}}, AccessAdmit},
		{"buyer without squads", &structs.Session{Role: "buyer"}, AccessDeny},
		{"buyer in other squad", &structs.Session{Role: "buyer", Squads: []string{"squad2"}}, AccessDeny},
		{"superadmin", &structs.Session{Role: "superadmin"}, AccessAdmit},
		{"otter", &structs.Session{Role: "otter"}, AccessAdmit},
		{"no session", nil, AccessDeny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAccess(structs.SessionState{Session: tt.session}, AreaSales)
			if got.Outcome != tt.want {
				t.Errorf("outcome = %s, want %s", got.Outcome, tt.want)
			}
			if tt.want == AccessDeny && got.RedirectTo != RootRedirect {
				t.Errorf("redirect = %q, want %q", got.RedirectTo, RootRedirect)
			}
			if tt.want == AccessAdmit && got.RedirectTo != "" {
				t.Errorf("admitted with redirect %q", got.RedirectTo)
			}
		})
	}
}

func TestEvaluateAccessWhileLoading(t *testing.T) {
	// Whatever the stale session says, loading never admits nor redirects
	for _, session := range []*structs.Session{nil, {Role: "superadmin"}} {
		got := EvaluateAccess(structs.SessionState{Session: session, Loading: true}, AreaSales)
		if got.Outcome != AccessPending || got.RedirectTo != "" || got.Admitted() {
			t.Errorf("loading decision = %+v", got)
		}
	}
}

func TestEvaluateAccessCatalog(t *testing.T) {
	admit := EvaluateAccess(structs.SessionState{Session: &structs.Session{Role: "otter"}}, AreaCatalog)
	if !admit.Admitted() {
		t.Error("otter must reach the catalog")
	}

	deny := EvaluateAccess(structs.SessionState{Session: &structs.Session{Role: "buyer", Squads: []string{"squad1"}}}, AreaCatalog)
	if deny.Outcome != AccessDeny {
		t.Errorf("outcome = %s, want deny", deny.Outcome)
	}
}
