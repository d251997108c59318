package incidentmd

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidOption = errors.New("invalid option")
)
