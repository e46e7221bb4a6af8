package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Components wrap these so callers can classify failures without leaking
// infrastructure details into the sweep loop.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
