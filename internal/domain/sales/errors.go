package sales

import "errors"

// Sentinel kinds for sales errors.
var (
	ErrBadDate  = errors.New("unrecognized date")
	ErrBadGroup = errors.New("unknown grouping")
)
