package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_CreatesDirsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "state.json")

	if err := WriteFileAtomic(path, []byte(`{"x":1}`), 0o600); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("unexpected content %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	if err := WriteFileAtomic(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("expected overwritten content, got %q", data)
	}
}
