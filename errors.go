package rpc

import (
	"errors"
	"fmt"

	"github.com/RidgeA/pubsub-rpc/transport"
)

var (
	// ErrNotEnabled is returned by operations on a disabled or closed entity.
	ErrNotEnabled = errors.New("rpc: entity not enabled")

	// ErrNoData is the normal empty result of a take operation.
	ErrNoData = transport.ErrNoData

	ErrConfigurationMismatch = errors.New("rpc: configuration mismatch")
	ErrEntityCreation        = errors.New("rpc: entity creation failed")
	ErrReplierExists         = errors.New("rpc: service already has a replier")
	ErrServiceExists         = errors.New("rpc: service already exists")
	ErrBadParameter          = errors.New("rpc: bad parameter")
	ErrClosed                = errors.New("rpc: entity closed")
	ErrInvalidEntity         = errors.New("rpc: entity is not valid")

	// ErrTokenMismatch means the writer did not assign the identity it
	// announced. A reply to that request cannot be taken.
	ErrTokenMismatch = errors.New("rpc: request token mismatch")
)

// ParamError reports one field of requester/replier parameters that is not
// consistent with the service.
type ParamError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("rpc: %s mismatch: expected %q, got %q", e.Field, e.Expected, e.Actual)
}

func (e *ParamError) Unwrap() error {
	return ErrConfigurationMismatch
}
