package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	a := g.Generate()
	b := g.Generate()

	if a == b {
		t.Fatal("expected distinct IDs")
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("expected a valid UUID, got %q: %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected UUIDv7, got version %d", parsed.Version())
	}
}
