package errs

import "errors"

var (
	ErrValidation     = errors.New("validation")     // caller data breaks a precondition
	ErrConflict       = errors.New("conflict")       // uniqueness violation
	ErrNotFound       = errors.New("not found")      // referenced id absent
	ErrInvalidState   = errors.New("invalid state")  // transition not allowed
	ErrAuthentication = errors.New("authentication") // credential mismatch

	ErrConnection   = errors.New("connection")
	ErrNotConnected = errors.New("not connected")
	ErrSchema       = errors.New("schema")
)
