package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrMotoboyNotFound = errors.New("motoboy not found")

	// ErrAddressUnresolvable means the postal lookup or geocoding could not
	// produce coordinates. External service failures are downgraded to this
	// error so that callers see a single "no fee available" condition.
	ErrAddressUnresolvable = errors.New("address could not be resolved")

	// ErrIncompleteAddress means the address is missing parts even after a
	// postal-code backfill, so geocoding was never attempted.
	ErrIncompleteAddress = errors.New("incomplete address data")

	ErrInvalidFee = errors.New("delivery fee must be a non-negative decimal")

	// ErrStatusConflict is returned by the order repository when a
	// compare-and-swap status update finds the stored status no longer
	// matches the one the transition was validated against.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// InvalidTransitionError reports a status change that is not an edge of the
// order type's transition table. Allowed carries the reachable statuses so a
// caller can render valid actions only.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
	Allowed   []Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid status transition: %s -> %s (allowed: %s)",
		e.Current, e.Requested, strings.Join(allowed, ", "))
}

// PreconditionFailedError reports an operation that requires a specific
// current status, such as courier assignment requiring "ready".
type PreconditionFailedError struct {
	Op       string
	Required Status
	Actual   Status
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("%s requires status %q, current status is %q", e.Op, e.Required, e.Actual)
}
