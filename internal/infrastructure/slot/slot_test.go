package slot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/thynkpro/portal/internal/core/ports"
)

func exerciseSlot(t *testing.T, s ports.DurableSlot) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx); ok || err != nil {
		t.Fatalf("fresh slot: ok=%v err=%v", ok, err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clearing an empty slot: %v", err)
	}
	if err := s.Set(ctx, []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, []byte(`{"id":"2"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, ok, err := s.Get(ctx)
	if err != nil || !ok || string(data) != `{"id":"2"}` {
		t.Fatalf("get = %q ok=%v err=%v", data, ok, err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.Get(ctx); ok {
		t.Fatalf("slot still occupied after clear")
	}
}

func TestMemorySlot(t *testing.T) {
	exerciseSlot(t, NewMemory())
}

func TestFileSlot(t *testing.T) {
	exerciseSlot(t, NewFile(filepath.Join(t.TempDir(), "nested"), "thynkpro_user"))
}

func TestFileSlot_SurvivesNewInstance(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := NewFile(dir, "thynkpro_user").Set(ctx, []byte("persisted")); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := NewFile(dir, "thynkpro_user").Get(ctx)
	if err != nil || !ok || string(data) != "persisted" {
		t.Fatalf("reopened slot = %q ok=%v err=%v", data, ok, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the slot file, found %d entries", len(entries))
	}
}
