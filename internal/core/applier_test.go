package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func fixtureApplier(t *testing.T, upstream string) *Applier {
	t.Helper()
	return NewApplier(NewGitRunner(), WithRemoteURL(func(ResourceKind) string {
		return fileURL(upstream)
	}))
}

func skillTarget(path string) InstallationTarget {
	return InstallationTarget{Path: path, Kind: KindSkill}
}

func TestApplier_MaterializeFresh(t *testing.T) {
	upstream := makeSkillUpstream(t, "a", "b", "c")
	applier := fixtureApplier(t, upstream)
	target := filepath.Join(t.TempDir(), "skills")

	var phases []string
	sink := ProgressFunc(func(name string) { phases = append(phases, name) })

	err := applier.Apply(context.Background(), OpMaterialize, skillTarget(target), []string{"a", "c"}, sink)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if !fileExists(filepath.Join(target, "a", "SKILL.md")) {
		t.Error("selected item a missing from working tree")
	}
	if !fileExists(filepath.Join(target, "c", "SKILL.md")) {
		t.Error("selected item c missing from working tree")
	}
	if dirExists(filepath.Join(target, "b")) {
		t.Error("unselected item b present in working tree")
	}

	// The installation must round-trip through detection.
	inst := NewInspector().Detect(target, KindSkill)
	if !inst.Present {
		t.Fatal("freshly materialized target not detected as present")
	}
	if !reflect.DeepEqual(inst.Identifiers, []string{"a", "c"}) {
		t.Errorf("Identifiers = %v, want [a c]", inst.Identifiers)
	}

	want := []string{"initializing", "configuring scope", "checking out"}
	if !reflect.DeepEqual(phases, want) {
		t.Errorf("phases = %v, want %v", phases, want)
	}
}

func TestApplier_Materialize_RejectsExistingRepo(t *testing.T) {
	upstream := makeSkillUpstream(t, "a")
	applier := fixtureApplier(t, upstream)

	target := t.TempDir()
	gitRun(t, target, "init", ".")

	err := applier.Apply(context.Background(), OpMaterialize, skillTarget(target), []string{"a"}, nil)
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error = %v (%T), want *PreconditionError", err, err)
	}
	if preErr.Path != target {
		t.Errorf("Path = %q, want %q", preErr.Path, target)
	}
}

func TestApplier_Materialize_AdoptsExistingDirectory(t *testing.T) {
	upstream := makeSkillUpstream(t, "a", "b")
	applier := fixtureApplier(t, upstream)

	target := t.TempDir()
	foreign := filepath.Join(target, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := applier.Apply(context.Background(), OpMaterialize, skillTarget(target), []string{"a"}, nil)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	data, err := os.ReadFile(foreign)
	if err != nil || string(data) != "keep me\n" {
		t.Errorf("pre-existing file not preserved: %q, %v", data, err)
	}
	if !fileExists(filepath.Join(target, "a", "SKILL.md")) {
		t.Error("selected item missing after adoption")
	}
	if !NewInspector().Detect(target, KindSkill).Present {
		t.Error("adopted target not detected as present")
	}
}

func TestApplier_Materialize_CleansUpCreatedDirectoryOnFailure(t *testing.T) {
	requireGit(t)
	applier := NewApplier(NewGitRunner(), WithRemoteURL(func(ResourceKind) string {
		return fileURL(filepath.Join(t.TempDir(), "nowhere"))
	}))

	target := filepath.Join(t.TempDir(), "skills")
	err := applier.Apply(context.Background(), OpMaterialize, skillTarget(target), []string{"a"}, nil)
	if err == nil {
		t.Fatal("Apply() succeeded against a nonexistent upstream")
	}
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("error = %v (%T), want *ApplyError", err, err)
	}
	if pathExists(target) {
		t.Error("failed materialize left behind a directory it created")
	}
}

func TestApplier_Materialize_KeepsPreexistingEmptyDirectoryOnFailure(t *testing.T) {
	requireGit(t)
	applier := NewApplier(NewGitRunner(), WithRemoteURL(func(ResourceKind) string {
		return fileURL(filepath.Join(t.TempDir(), "nowhere"))
	}))

	target := filepath.Join(t.TempDir(), "skills")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := applier.Apply(context.Background(), OpMaterialize, skillTarget(target), []string{"a"}, nil); err == nil {
		t.Fatal("Apply() succeeded against a nonexistent upstream")
	}
	if !pathExists(target) {
		t.Error("failed materialize removed a directory it did not create")
	}
}

func TestApplier_Reconcile(t *testing.T) {
	upstream := makeSkillUpstream(t, "a", "b", "c")
	applier := fixtureApplier(t, upstream)
	target := filepath.Join(t.TempDir(), "skills")
	ctx := context.Background()

	if err := applier.Apply(ctx, OpMaterialize, skillTarget(target), []string{"a"}, nil); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// Grow the selection.
	if err := applier.Apply(ctx, OpReconcile, skillTarget(target), []string{"a", "b"}, nil); err != nil {
		t.Fatalf("reconcile (grow): %v", err)
	}
	if !fileExists(filepath.Join(target, "b", "SKILL.md")) {
		t.Error("newly selected item b missing after reconcile")
	}

	// Shrink it: the pattern list is a full replace, so a disappears.
	if err := applier.Apply(ctx, OpReconcile, skillTarget(target), []string{"b"}, nil); err != nil {
		t.Fatalf("reconcile (shrink): %v", err)
	}
	if dirExists(filepath.Join(target, "a")) {
		t.Error("deselected item a still present after reconcile")
	}
	inst := NewInspector().Detect(target, KindSkill)
	if !reflect.DeepEqual(inst.Identifiers, []string{"b"}) {
		t.Errorf("Identifiers = %v, want [b]", inst.Identifiers)
	}
}

func TestApplier_Reconcile_Idempotent(t *testing.T) {
	upstream := makeSkillUpstream(t, "a", "b")
	applier := fixtureApplier(t, upstream)
	target := filepath.Join(t.TempDir(), "skills")
	ctx := context.Background()

	if err := applier.Apply(ctx, OpMaterialize, skillTarget(target), []string{"a", "b"}, nil); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	patternPath := filepath.Join(target, filepath.FromSlash(sparsePatternFile))
	if err := applier.Apply(ctx, OpReconcile, skillTarget(target), []string{"a", "b"}, nil); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	first, err := os.ReadFile(patternPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := applier.Apply(ctx, OpReconcile, skillTarget(target), []string{"a", "b"}, nil); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	second, err := os.ReadFile(patternPath)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("pattern file changed across identical reconciles:\n%q\n%q", first, second)
	}
}

func TestApplier_Reconcile_RequiresRepo(t *testing.T) {
	requireGit(t)
	applier := NewApplier(NewGitRunner())
	target := t.TempDir()

	err := applier.Apply(context.Background(), OpReconcile, skillTarget(target), []string{"a"}, nil)
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error = %v (%T), want *PreconditionError", err, err)
	}
}

func TestCatalogCloneURL(t *testing.T) {
	if got := CatalogCloneURL(KindSkill, "https"); got != "https://github.com/anthropics/skills.git" {
		t.Errorf("https URL = %q", got)
	}
	if got := CatalogCloneURL(KindSkill, "ssh"); got != "git@github.com:anthropics/skills.git" {
		t.Errorf("ssh URL = %q", got)
	}
	if got := CatalogCloneURL(KindSubagent, "https"); got != "https://github.com/wshobson/agents.git" {
		t.Errorf("subagent https URL = %q", got)
	}
}
