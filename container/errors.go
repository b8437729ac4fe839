package container

import "errors"

// Sentinel errors for store and codec operations.
var (
	ErrNotFound     = errors.New("entry not found")
	ErrDecodeFailed = errors.New("archive decode failed")
)
