package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrDataUnavailable marks a store that cannot be reached or read. The
	// analytics layer treats it as fatal; there is no partial-result mode.
	ErrDataUnavailable = errors.New("local data unavailable")
)
