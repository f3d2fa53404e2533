package reconcile

import (
	"fmt"
	"strings"

	"github.com/mmynk/groupsync/internal/models"
)

// Report summarizes one reconciliation pass.
type Report struct {
	// Pass identifies the pass in logs.
	Pass  string
	Kind  models.DeltaKind
	Group string

	// Invited and Revoked count provider calls that succeeded.
	Invited int
	Revoked int
	// Skipped counts additions whose user already occupied the room.
	Skipped int
	// Retained counts removals where another group still grants access.
	Retained int

	// Unresolved counts removals that were not attempted because the groups
	// sharing the room could not be read. Those users may still be in the
	// room.
	Unresolved int

	// Failures lists addition pairs that could not be converged. Removal
	// failures are logged and never listed here.
	Failures []Failure
}

// Failure is one pair the pass could not converge.
type Failure struct {
	Pair models.Pair
	Err  error
}

// Err returns a *ProviderError when any addition failed, nil otherwise.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &ProviderError{Group: r.Group, Failures: r.Failures}
}

// ProviderError reports additions the membership provider did not carry
// out. The group change that caused them is already committed.
type ProviderError struct {
	Group    string
	Failures []Failure
}

func (e *ProviderError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s in %s", f.Pair.User, f.Pair.Room.AliasOrID()))
	}
	return fmt.Sprintf("failed to invite %d user(s) for group %s: %s",
		len(e.Failures), e.Group, strings.Join(parts, ", "))
}

func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
