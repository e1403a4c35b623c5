package block

import (
	"errors"
	"fmt"
)

var (
	// ErrViewNotFound is returned when a render or insert target does not resolve.
	ErrViewNotFound = errors.New("view not found")
	// ErrStackUnderflow is returned by Stop and Show when no section is open.
	ErrStackUnderflow = errors.New("no open section to stop")
	// ErrNoActiveComponent is returned by slot and component closing calls made
	// outside a component.
	ErrNoActiveComponent = errors.New("no active component, open one with 'component' first")
	// ErrNoActiveSlot is returned by EndSlot without an open slot, and by
	// EndComponent while a slot of that component is still open.
	ErrNoActiveSlot = errors.New("no active slot, open one with 'slot' first")
	// ErrUnbalanced is returned when a render finishes with sections,
	// components or output buffers still open.
	ErrUnbalanced = errors.New("unbalanced open/close calls")
	// ErrSessionBroken is returned when a session is reused after a failed render.
	ErrSessionBroken = errors.New("session is broken, reset it before reuse")
)

// ViewError describes a failure that happened while handling a view.
type ViewError struct {
	Op   string
	View string
	Err  error
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.View, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

func viewError(op, view string, err error) error {
	if err == nil {
		return nil
	}
	return &ViewError{Op: op, View: view, Err: err}
}
