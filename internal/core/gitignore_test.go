package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureIgnored(t *testing.T) {
	readIgnore := func(t *testing.T, dir string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	t.Run("creates file", func(t *testing.T) {
		dir := t.TempDir()
		changed, err := EnsureIgnored(dir, ".claude/skills/")
		if err != nil {
			t.Fatalf("EnsureIgnored() error: %v", err)
		}
		if !changed {
			t.Error("changed = false on first add")
		}
		if got := readIgnore(t, dir); got != ".claude/skills/\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := EnsureIgnored(dir, ".claude/skills/"); err != nil {
			t.Fatal(err)
		}
		changed, err := EnsureIgnored(dir, ".claude/skills/")
		if err != nil {
			t.Fatalf("EnsureIgnored() error: %v", err)
		}
		if changed {
			t.Error("changed = true on repeat add")
		}
	})

	t.Run("appends without trailing newline", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := EnsureIgnored(dir, ".claude/agents/"); err != nil {
			t.Fatal(err)
		}
		if got := readIgnore(t, dir); got != "node_modules\n.claude/agents/\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("preserves existing entries", func(t *testing.T) {
		dir := t.TempDir()
		existing := "# deps\nnode_modules/\n\ndist/\n"
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(existing), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := EnsureIgnored(dir, "skills/"); err != nil {
			t.Fatal(err)
		}
		if got := readIgnore(t, dir); got != existing+"skills/\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("rejects empty entry", func(t *testing.T) {
		if _, err := EnsureIgnored(t.TempDir(), "   "); err == nil {
			t.Error("EnsureIgnored() accepted a blank entry")
		}
	})
}
