package backend

import (
	"testing"

	"finnova/internal/config"
	"finnova/internal/log"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory"}
	store, err := Open(cfg, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if store == nil {
		t.Fatal("Open() returned nil store")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "redis"}
	if _, err := Open(cfg, log.New(log.DefaultConfig())); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestShared(t *testing.T) {
	cases := []struct {
		backend string
		want    bool
	}{
		{"memory", false},
		{"sqlite", true},
		{"postgres", true},
		{"redis", false},
	}
	for _, tc := range cases {
		if got := Shared(tc.backend); got != tc.want {
			t.Errorf("Shared(%q) = %v, want %v", tc.backend, got, tc.want)
		}
	}
}
