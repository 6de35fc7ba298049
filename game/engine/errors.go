package engine

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrOutOfBounds          = errors.New("coordinate out of bounds")
	ErrValueNotInPool       = errors.New("value not in pool")
	ErrEmptyPool            = errors.New("pool is empty")
	ErrPoolTooSmall         = errors.New("pool needs at least two values")
	ErrNonPositiveValue     = errors.New("pool values must be positive")
)
