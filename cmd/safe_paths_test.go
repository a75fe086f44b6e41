package cmd

import (
	"path/filepath"
	"testing"
)

func TestValidateRunID(t *testing.T) {
	valid := []string{"abc123", "RUN-001", "0d7f2c1e-8f7e-4f4a-9f43-2f1a6a1b2c3d"}
	for _, id := range valid {
		if err := validateRunID(id); err != nil {
			t.Fatalf("expected id %s to be valid: %v", id, err)
		}
	}

	invalid := []string{"", ".", "..", "bad/id", `bad\id`}
	for _, id := range invalid {
		if err := validateRunID(id); err == nil {
			t.Fatalf("expected id %s to be rejected", id)
		}
	}
}

func TestResolveRunPath(t *testing.T) {
	base := t.TempDir()
	path, err := resolveRunPath(base, "run123", "run.json")
	if err != nil {
		t.Fatalf("resolveRunPath failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(base, "run123") {
		t.Fatalf("path resolved outside run dir: %s", path)
	}
}

func TestResolveRunPathInvalidID(t *testing.T) {
	if _, err := resolveRunPath(t.TempDir(), "bad/id"); err == nil {
		t.Fatal("expected error for invalid run id")
	}
}

func TestResolveRunPathRejectsTraversal(t *testing.T) {
	if _, err := resolveRunPath(t.TempDir(), "run123", "..", "..", "etc", "passwd"); err == nil {
		t.Fatal("expected error for traversal outside the results dir")
	}
}
