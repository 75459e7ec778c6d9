package config

import (
	"testing"
	"time"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  time.Duration
	}{
		{name: "unset uses default", set: false, want: time.Minute},
		{name: "duration string", value: "90s", set: true, want: 90 * time.Second},
		{name: "bare integer is seconds", value: "15", set: true, want: 15 * time.Second},
		{name: "garbage uses default", value: "soon", set: true, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_DURATION", tt.value)
			}
			if got := getEnvAsTimeDuration("TEST_DURATION", time.Minute); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")
	got := getEnvAsSlice("TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
