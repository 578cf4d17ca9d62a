package rpc

import (
	"sync"
	"sync/atomic"
)

type State int32

const (
	StateConstructing State = iota
	StateInvalid
	StateEnabled
	StateDisabled
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateInvalid:
		return "invalid"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type Entity interface {
	// Enable is idempotent.
	Enable() error
	// Close disables the entity. Operations issued afterwards fail with
	// ErrNotEnabled; Enable may turn it back on until the entity is deleted.
	Close() error
	IsEnabled() bool
	State() State
}

// entity carries the lifecycle shared by services and endpoints. Public
// operations run between begin and end; teardown takes opMu exclusively so
// it never overlaps an operation in flight.
type entity struct {
	state atomic.Int32
	opMu  sync.RWMutex
}

func (e *entity) State() State {
	return State(e.state.Load())
}

func (e *entity) IsEnabled() bool {
	return e.State() == StateEnabled
}

func (e *entity) Enable() error {
	for {
		switch s := e.State(); s {
		case StateEnabled:
			return nil
		case StateDisabled:
			if e.state.CompareAndSwap(int32(s), int32(StateEnabled)) {
				return nil
			}
		case StateClosed:
			return ErrClosed
		default:
			return ErrInvalidEntity
		}
	}
}

func (e *entity) Close() error {
	e.state.CompareAndSwap(int32(StateEnabled), int32(StateDisabled))
	return nil
}

// settle records the outcome of construction.
func (e *entity) settle(valid bool) {
	if valid {
		e.state.Store(int32(StateEnabled))
	} else {
		e.state.Store(int32(StateInvalid))
	}
}

func (e *entity) begin() error {
	e.opMu.RLock()
	if e.State() != StateEnabled {
		e.opMu.RUnlock()
		return ErrNotEnabled
	}
	return nil
}

func (e *entity) end() {
	e.opMu.RUnlock()
}

// terminate closes the entity for good and runs release with no operation in
// flight. It reports false when the entity was already closed.
func (e *entity) terminate(release func()) bool {
	_ = e.Close()
	e.opMu.Lock()
	defer e.opMu.Unlock()
	if e.State() == StateClosed {
		return false
	}
	e.state.Store(int32(StateClosed))
	release()
	return true
}
