package events

import "errors"

var (
	// ErrEmptyEventName is returned when registering or triggering without a name.
	ErrEmptyEventName = errors.New("events: empty event name")
	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("events: nil handler")
	// ErrHandlerNotComparable is returned for handler values that have no identity
	// (non-comparable types that are not functions), since they could never be removed.
	ErrHandlerNotComparable = errors.New("events: handler is not comparable")
	// ErrNilEvent is returned by Dispatch for a nil event.
	ErrNilEvent = errors.New("events: nil event")
	// ErrEventDispatched is returned when an event is dispatched a second time.
	ErrEventDispatched = errors.New("events: event already dispatched")
)
