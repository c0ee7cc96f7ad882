package fluid

import (
	"errors"
	"fmt"
)

// Setup errors. They are returned by NewModel and never by Step.
var (
	// ErrSelfChild indicates a boat whose parent basin is itself.
	ErrSelfChild = errors.New("fluid: basin is its own child")

	// ErrNestingDepth indicates a second boat in one pool or a boat inside a boat.
	ErrNestingDepth = errors.New("fluid: basin nesting deeper than one child")

	// ErrUnknownBasin indicates a reference to a basin that does not exist.
	ErrUnknownBasin = errors.New("fluid: unknown basin")

	// ErrUnknownMass indicates a reference to a mass that does not exist.
	ErrUnknownMass = errors.New("fluid: unknown mass")

	// ErrDuplicateID indicates two masses or basins sharing an id.
	ErrDuplicateID = errors.New("fluid: duplicate id")

	// ErrInvalidBasin indicates inverted or degenerate basin bounds.
	ErrInvalidBasin = errors.New("fluid: invalid basin geometry")

	// ErrInvalidMass indicates a non-positive or non-finite mass value.
	ErrInvalidMass = errors.New("fluid: invalid mass value")

	// ErrInvalidVolume indicates a negative or non-finite volume.
	ErrInvalidVolume = errors.New("fluid: invalid volume")

	// ErrInvalidContext indicates non-physical simulation constants.
	ErrInvalidContext = errors.New("fluid: invalid context")
)

// Runtime call errors. These are caller bugs, not physical edge cases.
var (
	ErrInvalidTimeStep = errors.New("fluid: time step must be positive and finite")
	ErrStepInProgress  = errors.New("fluid: model mutated during a step")
	ErrBoatGeometry    = errors.New("fluid: boat hull volume is fixed")
	ErrInvalidPosition = errors.New("fluid: position must be finite")
)

// SetupError wraps a configuration error with the offending element.
type SetupError struct {
	Kind    string
	ID      string
	Wrapped error
}

func (e *SetupError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("fluid: %s: %v", e.Kind, e.Wrapped)
	}
	return fmt.Sprintf("fluid: %s %q: %v", e.Kind, e.ID, e.Wrapped)
}

func (e *SetupError) Unwrap() error {
	return e.Wrapped
}

func setupErr(kind, id string, err error) error {
	return &SetupError{Kind: kind, ID: id, Wrapped: err}
}
