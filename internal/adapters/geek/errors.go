package geek

import "errors"

// Sentinel kinds for catalog API errors.
var (
	// ErrRequestFailed marks a request that ended with a non-success status.
	ErrRequestFailed = errors.New("catalog request failed")
	// ErrStillQueued marks an export that stayed queued (202) past the
	// configured retry budget.
	ErrStillQueued = errors.New("catalog export still queued")
	// ErrMalformedResponse marks a response body that failed to decode.
	ErrMalformedResponse = errors.New("malformed catalog response")
)
