package ingest

import "errors"

// Document errors. Compare with errors.Is.
var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrInvalidDocument    = errors.New("invalid household document")
	ErrPetNotFound        = errors.New("pet not found")
	ErrAmbiguousPet       = errors.New("pet name matches more than one pet")
)
