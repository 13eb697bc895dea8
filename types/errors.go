package types

import (
	"fmt"

	"cosmossdk.io/errors"
)

var (
	// ErrInvalidInput is returned when a caller-supplied amount or ratio is outside its domain.
	ErrInvalidInput = errors.Register(ModuleName, 2, "invalid input")
	// ErrExternalVenue is returned when a pool, staking or token collaborator fails.
	ErrExternalVenue = errors.Register(ModuleName, 3, "external venue failure")
	// ErrNothingToInvest signals that there is no idle balance to fold into the position.
	ErrNothingToInvest = errors.Register(ModuleName, 4, "nothing to invest")
	// ErrSlippage is returned when a venue returns less than the configured minimum.
	ErrSlippage = errors.Register(ModuleName, 5, "slippage exceeded")
)

// VenueError wraps a failure returned by an external collaborator. It records a
// stable operation name so callers and logs can tell which venue call failed,
// while errors.Is(err, ErrExternalVenue) still holds.
type VenueError struct {
	// Op is the collaborator operation that failed, e.g. "pool_join".
	Op string
	// Err is the error returned by the collaborator.
	Err error
}

// Error implements the error interface.
func (e *VenueError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExternalVenue.Error(), e.Op, e.Err)
}

// Unwrap exposes both the registered ErrExternalVenue and the underlying cause.
func (e *VenueError) Unwrap() []error { return []error{ErrExternalVenue, e.Err} }

// VenueErr constructs a VenueError for the given operation. A nil err yields nil.
func VenueErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &VenueError{Op: op, Err: err}
}
