package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoHeader      = errors.New("range has no header row")
	ErrMissingColumn = errors.New("required column missing")
	ErrUnknownTable  = errors.New("unknown config table")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownField  = errors.New("unknown field")
)
