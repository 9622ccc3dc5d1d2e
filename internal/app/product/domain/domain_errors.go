package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// ErrDataValidation is the parent of every input validation failure.
	ErrDataValidation = errors.New("invalid product data")

	ErrProductNotFound = errors.New("product not found")

	ErrEmptyName        = fmt.Errorf("%w: product name cannot be empty", ErrDataValidation)
	ErrInvalidPrice     = fmt.Errorf("%w: invalid price", ErrDataValidation)
	ErrInvalidCategory  = fmt.Errorf("%w: invalid category", ErrDataValidation)
	ErrMissingAttribute = fmt.Errorf("%w: missing attribute", ErrDataValidation)
	ErrInvalidAttribute = fmt.Errorf("%w: invalid attribute type", ErrDataValidation)

	// Lifecycle errors
	ErrEmptyID          = fmt.Errorf("%w: update called with empty id", ErrDataValidation)
	ErrAlreadyPersisted = fmt.Errorf("%w: product already has an id", ErrDataValidation)
)
