package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound = errors.New("unit not found")
	ErrBadGroup = errors.New("unknown ranking group")
)
