package core

import (
	"context"
	"fmt"
	"os"
)

// ProgressSink receives ordered phase-started notifications from the
// applier. It is an observational side channel only: never used for
// control flow or error signaling.
type ProgressSink interface {
	Phase(name string)
}

// ProgressFunc adapts a plain function to a ProgressSink.
type ProgressFunc func(name string)

// Phase implements ProgressSink.
func (f ProgressFunc) Phase(name string) { f(name) }

// discardProgress swallows phases when the caller passes a nil sink.
type discardProgress struct{}

func (discardProgress) Phase(string) {}

// Applier executes a materialize-or-reconcile decision against the
// working-copy driver. Exactly one Apply call is active at a time per
// run; multiple targets are processed strictly in sequence.
type Applier struct {
	git *GitRunner

	// remoteURL builds the catalog clone URL for a kind. Overridable
	// for tests and for the ssh protocol preference.
	remoteURL func(kind ResourceKind) string
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithRemoteURL overrides how the upstream URL is derived from a kind.
func WithRemoteURL(fn func(kind ResourceKind) string) ApplierOption {
	return func(a *Applier) { a.remoteURL = fn }
}

// NewApplier creates an Applier backed by the given driver.
func NewApplier(git *GitRunner, opts ...ApplierOption) *Applier {
	a := &Applier{
		git:       git,
		remoteURL: func(kind ResourceKind) string { return CatalogCloneURL(kind, "https") },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CatalogCloneURL returns the clone URL for a kind's fixed catalog in
// the given protocol ("https" or "ssh").
func CatalogCloneURL(kind ResourceKind, protocol string) string {
	owner, repo := kind.CatalogRepo()
	if protocol == "ssh" {
		return fmt.Sprintf("git@github.com:%s/%s.git", owner, repo)
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)
}

// Apply executes the operation against the target, scoping the working
// copy to exactly ids. On failure it returns a PreconditionError or an
// ApplyError; for a materialize that created the target directory, the
// directory is removed again before the error propagates.
func (a *Applier) Apply(ctx context.Context, op Operation, target InstallationTarget, ids []string, sink ProgressSink) error {
	if sink == nil {
		sink = discardProgress{}
	}
	patterns := EncodePatterns(target.Kind, ids)

	if op == OpMaterialize {
		return a.materialize(ctx, target, patterns, sink)
	}
	return a.reconcile(ctx, target, patterns, sink)
}

// materialize creates a brand-new partial working copy at the target.
//
// Three target states are distinguished. Already version-controlled is
// a hard precondition failure. Absent-or-empty gets a fresh minimal
// clone. Pre-existing foreign content gets adopted in place: version
// control is initialized inside the directory and the upstream default
// branch force-checked-out around the existing files, which are never
// deleted first.
func (a *Applier) materialize(ctx context.Context, target InstallationTarget, patterns []string, sink ProgressSink) error {
	path := target.Path
	if a.git.IsRepo(path) {
		return &PreconditionError{
			Path:   path,
			Reason: "already a git repository; choose a different directory or manage it as an existing installation",
		}
	}

	if pathExists(path) && !isEmptyDir(path) {
		return a.adopt(ctx, target, patterns, sink)
	}

	// Fresh clone. Cleanup guarantee: remove the directory on failure
	// only if this operation created it.
	created := !pathExists(path)
	err := a.freshClone(ctx, target, patterns, sink)
	if err != nil && created {
		_ = os.RemoveAll(path)
	}
	return err
}

// freshClone materializes into an absent or empty directory using the
// minimal-transfer strategy: fetch without file contents, narrow the
// scope, then materialize only the selected content.
func (a *Applier) freshClone(ctx context.Context, target InstallationTarget, patterns []string, sink ProgressSink) error {
	url := a.remoteURL(target.Kind)

	sink.Phase("initializing")
	if err := a.git.CloneNoCheckout(ctx, url, target.Path); err != nil {
		return &ApplyError{Step: "cloning", Err: err}
	}

	sink.Phase("configuring scope")
	if err := a.git.SparseSet(ctx, target.Path, patterns); err != nil {
		return &ApplyError{Step: "configuring scope", Err: err}
	}

	sink.Phase("checking out")
	if err := a.git.Checkout(ctx, target.Path); err != nil {
		return &ApplyError{Step: "checking out", Err: err}
	}
	return nil
}

// adopt initializes version control inside a pre-existing directory
// with unrelated content. Nothing is deleted on failure: the applier
// only cleans up what it created, and here it created nothing.
func (a *Applier) adopt(ctx context.Context, target InstallationTarget, patterns []string, sink ProgressSink) error {
	path := target.Path
	url := a.remoteURL(target.Kind)

	sink.Phase("initializing")
	if err := a.git.Init(ctx, path); err != nil {
		return &ApplyError{Step: "initializing", Err: err}
	}
	if err := a.git.AddOrigin(ctx, path, url); err != nil {
		return &ApplyError{Step: "initializing", Err: err}
	}

	branch, err := a.git.DefaultBranch(ctx, path)
	if err != nil {
		return &ApplyError{Step: "initializing", Err: err}
	}
	if err := a.git.FetchBranch(ctx, path, branch); err != nil {
		return &ApplyError{Step: "initializing", Err: err}
	}

	sink.Phase("configuring scope")
	if err := a.git.SparseSet(ctx, path, patterns); err != nil {
		return &ApplyError{Step: "configuring scope", Err: err}
	}

	sink.Phase("checking out")
	if err := a.git.CheckoutBranchForce(ctx, path, branch); err != nil {
		return &ApplyError{Step: "checking out", Err: err}
	}
	return nil
}

// reconcile rewrites the pattern list of an existing installation to
// exactly the new selection — a full replace, not an incremental edit —
// and updates the working tree to match. The upstream pull is
// best-effort: a detached adoption may have no pullable upstream, and
// reconciliation must proceed regardless.
func (a *Applier) reconcile(ctx context.Context, target InstallationTarget, patterns []string, sink ProgressSink) error {
	path := target.Path
	if !a.git.IsRepo(path) {
		return &PreconditionError{
			Path:   path,
			Reason: "not a git repository; cannot manage an installation here",
		}
	}

	sink.Phase("pulling upstream")
	_ = a.git.Pull(ctx, path)

	sink.Phase("configuring scope")
	if err := a.git.SparseSet(ctx, path, patterns); err != nil {
		return &ApplyError{Step: "configuring scope", Err: err}
	}

	sink.Phase("applying")
	if err := a.git.SparseReapply(ctx, path); err != nil {
		return &ApplyError{Step: "applying", Err: err}
	}
	return nil
}
