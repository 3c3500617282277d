package core

import (
	"context"
	"strings"
)

// UpdateChecker determines which installed items have upstream changes
// not yet pulled locally. Its verdicts only annotate the selection UI
// and the final summary; they never alter the reconciliation decision.
type UpdateChecker struct {
	git *GitRunner
}

// NewUpdateChecker creates an UpdateChecker backed by the given
// driver.
func NewUpdateChecker(git *GitRunner) *UpdateChecker {
	return &UpdateChecker{git: git}
}

// Check returns the subset of identifiers with upstream changes.
//
// It fetches once and resolves the current branch once; failure of
// either aborts the whole check with an empty result — a conservative
// "nothing needs updating" beats a misleading partial count. A diff
// failure scoped to a single identifier (a path that never existed
// upstream, say) is swallowed for that identifier only.
func (u *UpdateChecker) Check(ctx context.Context, path string, kind ResourceKind, ids []string) map[string]bool {
	if err := u.git.Fetch(ctx, path); err != nil {
		return nil
	}
	branch, err := u.git.CurrentBranch(ctx, path)
	if err != nil {
		return nil
	}

	updates := make(map[string]bool)
	for _, id := range ids {
		changed, err := u.git.DiffAgainstUpstream(ctx, path, branch, scopePath(kind, id))
		if err != nil {
			continue
		}
		if changed {
			updates[id] = true
		}
	}
	return updates
}

// scopePath returns the repository-relative pathspec for one
// identifier.
func scopePath(kind ResourceKind, id string) string {
	if kind.spec().dirScoped {
		return strings.TrimSuffix(id, "/") + "/"
	}
	return id
}
