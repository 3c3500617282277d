package core

// Operation is the state transition the applier performs against a
// target.
type Operation int

const (
	// OpMaterialize creates a brand-new partial working copy.
	OpMaterialize Operation = iota
	// OpReconcile rewrites an existing working copy's pattern set and
	// updates its tree to match.
	OpReconcile
)

// String returns the operation's display name.
func (op Operation) String() string {
	if op == OpMaterialize {
		return "materialize"
	}
	return "reconcile"
}

// ComputeDiff partitions the previously-installed identifiers and the
// newly chosen ones into (added, removed, unchanged). Pure function,
// no I/O.
//
// Output ordering follows the input slices: callers pass both sets in
// catalog listing order, so the diff reads the same way the selection
// UI did. Added and unchanged take their order from selected; removed
// takes its order from installed.
func ComputeDiff(installed, selected []string) SelectionDiff {
	installedSet := make(map[string]bool, len(installed))
	for _, id := range installed {
		installedSet[id] = true
	}
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	var diff SelectionDiff
	for _, id := range selected {
		if installedSet[id] {
			diff.Unchanged = append(diff.Unchanged, id)
		} else {
			diff.Added = append(diff.Added, id)
		}
	}
	for _, id := range installed {
		if !selectedSet[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}
	return diff
}

// ValidateSelection rejects a confirmed selection of zero items with
// ErrEmptySelection. The selection UI catches it and re-prompts; an
// empty set never reaches ComputeDiff or the applier.
func ValidateSelection(selected []string) error {
	if len(selected) == 0 {
		return ErrEmptySelection
	}
	return nil
}

// DecideOperation picks the transition for a target: materialize when
// no prior installation was detected, reconcile otherwise — even for a
// no-op diff, because reconciling is also how upstream updates are
// pulled for unchanged items.
func DecideOperation(priorPresent bool) Operation {
	if priorPresent {
		return OpReconcile
	}
	return OpMaterialize
}
