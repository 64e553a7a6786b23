package catalog

import "errors"

var (
	// ErrNotFound indicates that no record with the requested name exists.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName indicates a create with a name that already exists.
	ErrDuplicateName = errors.New("record already exists")

	// ErrInvalidRecord indicates an empty or missing required field.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrMalformedData indicates that the persisted document could not
	// be parsed. The document is never repaired or truncated on read.
	ErrMalformedData = errors.New("malformed catalog document")

	// ErrUnavailable indicates an I/O or network failure reaching the
	// backing store.
	ErrUnavailable = errors.New("storage unavailable")
)
