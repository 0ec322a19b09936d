package storage

import (
	"path/filepath"
	"testing"
)

func TestApplySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")

	version, err := ApplySchema(path)
	if err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}

	// Running again against an up-to-date database is a no-op.
	again, err := ApplySchema(path)
	if err != nil {
		t.Fatalf("ApplySchema rerun: %v", err)
	}
	if again != version {
		t.Errorf("rerun version = %d, want %d", again, version)
	}
}
