package transport

import "errors"

var (
	// ErrNoData is returned by take operations when nothing is pending. It is
	// the normal empty result, not a failure.
	ErrNoData = errors.New("transport: no data")

	// ErrTimeout is returned by Write when the writer stayed blocked longer
	// than its maximum blocking time.
	ErrTimeout = errors.New("transport: timeout")

	ErrAlreadyDeleted     = errors.New("transport: entity already deleted")
	ErrPreconditionNotMet = errors.New("transport: precondition not met")
	ErrUnknownType        = errors.New("transport: type not registered")
	ErrTopicExists        = errors.New("transport: topic already exists")
	ErrNotSupported       = errors.New("transport: not supported")
)
