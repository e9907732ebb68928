package movable

import "errors"

// Common errors for ordering operations
var (
	ErrSamePosition       = errors.New("destination equals current position")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrNegativePosition   = errors.New("negative position")
	ErrDuplicatePosition  = errors.New("duplicate position")
	ErrPositionGap        = errors.New("positions are not contiguous")
	ErrScopeMismatch      = errors.New("item belongs to another list")
	ErrDuplicateItem      = errors.New("duplicate item id")
)
