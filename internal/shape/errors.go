package shape

import "errors"

var (
	// ErrUnknownKind indicates a shape kind name that is not in the table.
	ErrUnknownKind = errors.New("shape: unknown kind")

	// ErrInvalidDimensions indicates a non-positive or non-finite dimension.
	ErrInvalidDimensions = errors.New("shape: dimensions must be positive and finite")

	// ErrInvertedBounds indicates a bottom extent above the top extent.
	ErrInvertedBounds = errors.New("shape: bottom above top")
)
