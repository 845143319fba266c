package edits

import "errors"

// Sentinel kinds for edit errors.
var (
	ErrWeightSum = errors.New("weights must sum to 10")
	ErrEmpty     = errors.New("no changes to commit")
	ErrInvalid   = errors.New("invalid change")
)
