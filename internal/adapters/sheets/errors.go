package sheets

import "errors"

// Sentinel kinds for spreadsheet errors.
var (
	ErrNotConfigured = errors.New("spreadsheet source not configured")
	ErrBadRange      = errors.New("invalid range")
	ErrNoSheet       = errors.New("sheet not found")
)
