package core

import (
	"errors"
	"fmt"
)

// ErrUserCancelled is returned when the user interrupts the interactive
// selection. It is a graceful exit, not an error path: callers print a
// cancellation message and exit 0.
var ErrUserCancelled = errors.New("cancelled by user")

// ErrEmptySelection is returned when the user confirms zero selected
// items. The selection UI catches it and re-prompts in place; it never
// reaches the reconciler.
var ErrEmptySelection = errors.New("no items selected")

// CatalogFetchError means the remote catalog was unreachable or
// returned a non-success status. It is not retried; the run aborts.
type CatalogFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *CatalogFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog request failed: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog request failed: %v", e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

// PreconditionError means a target path is in a state the requested
// operation cannot work with: already version-controlled during a
// materialize, or not version-controlled when a reconcile requires it.
// The run aborts for that target; the user must choose differently.
type PreconditionError struct {
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// ApplyError means the working-copy driver failed mid-operation. For a
// materialize the applier runs its cleanup guarantee before returning
// one; a reconcile attempts no cleanup.
type ApplyError struct {
	Step string
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply failed while %s: %v", e.Step, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
