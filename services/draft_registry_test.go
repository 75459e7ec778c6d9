package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDraftRegistryExpiresIdleDrafts(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewDraftRegistry(testLogger(), time.Hour)
	r.now = func() time.Time { return now }

	kept := r.Open(NewCreateDraft())
	idle := r.Open(NewCreateDraft())

	now = now.Add(40 * time.Minute)
	if _, ok := r.Get(kept); !ok {
		t.Fatal("draft expired early")
	}

	now = now.Add(40 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if _, ok := r.Get(idle); ok {
		t.Error("idle draft must be gone")
	}
	if _, ok := r.Get(kept); !ok {
		t.Error("touched draft must survive")
	}
}

func TestDraftRegistryDiscard(t *testing.T) {
	r := NewDraftRegistry(testLogger(), 0)
	id := r.Open(NewCreateDraft())

	if !r.Discard(id) {
		t.Error("discard of open draft reported false")
	}
	if r.Discard(id) || r.Discard(uuid.New()) {
		t.Error("discard of unknown draft reported true")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d", r.Len())
	}
}
