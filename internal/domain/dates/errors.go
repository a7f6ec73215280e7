package dates

import "errors"

// Sentinel kinds for date window errors.
var (
	ErrInvalidDateRange = errors.New("invalid date range")
)
