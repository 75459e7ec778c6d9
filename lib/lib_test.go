package lib

import (
	"catalogo_server/structs"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestSessionRoundTrip(t *testing.T) {
	in := &structs.Session{UserID: "u-1", Email: "a@b.c", Role: "buyer", Squads: []string{"squad5"}}
	token, err := SignSession(in, "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	out, err := ParseSession(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.UserID != "u-1" || out.Role != "buyer" || !out.InSquad("squad5") {
		t.Errorf("unexpected session %+v", out)
	}

	if _, err := ParseSession(token, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestParseSessionExpired(t *testing.T) {
	token, err := SignSession(&structs.Session{UserID: "u", Role: "otter"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSession(token, "secret"); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("got %v, want ErrExpiredToken", err)
	}
}

func TestExtractSessionBearer(t *testing.T) {
	token, _ := SignSession(&structs.Session{UserID: "u", Role: "otter"}, "secret", time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	s, err := ExtractSession(r, "session", "secret")
	if err != nil || s.Role != "otter" {
		t.Fatalf("got %+v, %v", s, err)
	}

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ExtractSession(bare, "session", "secret"); !errors.Is(err, ErrNoSession) {
		t.Errorf("got %v, want ErrNoSession", err)
	}
}

func TestMapPgError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if err := MapPgError(unique); !errors.Is(err, ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}

	plain := errors.New("boom")
	if err := MapPgError(plain); err != plain {
		t.Errorf("unrelated errors must pass through, got %v", err)
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	err := NewPersistenceError("update", "shipments", ErrNotFound)
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Collection != "shipments" {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("not-found must survive wrapping")
	}
	if NewPersistenceError("fetch", "products", nil) != nil {
		t.Error("nil in, nil out")
	}
}

func TestIndexByKeyKeepsOrder(t *testing.T) {
	type row struct {
		group string
		n     int
	}
	rows := []row{{"a", 1}, {"b", 2}, {"a", 3}, {"a", 4}}
	index := IndexByKey(rows, func(r row) string { return r.group })

	if len(index["a"]) != 3 || len(index["b"]) != 1 {
		t.Fatalf("unexpected grouping %v", index)
	}
	for i, want := range []int{1, 3, 4} {
		if index["a"][i].n != want {
			t.Errorf("index[a][%d] = %d, want %d", i, index["a"][i].n, want)
		}
	}
}

func TestIsConfirmed(t *testing.T) {
	tests := []struct {
		url    string
		header string
		want   bool
	}{
		{"/x", "", false},
		{"/x?confirm=true", "", true},
		{"/x?confirm=false", "", false},
		{"/x", "1", true},
		{"/x?confirm=nope", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, tt.url, nil)
		if tt.header != "" {
			r.Header.Set("X-Confirm", tt.header)
		}
		if got := IsConfirmed(r); got != tt.want {
			t.Errorf("%s header=%q: got %v, want %v", tt.url, tt.header, got, tt.want)
		}
	}
}
