package ledger

import "errors"

// Sentinel errors. Every error returned by a Store operation wraps one of
// these; callers test with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
)
