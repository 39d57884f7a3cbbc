package events

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Common event names triggered by the skeleton.
const (
	ControllerBefore = "controller.before"
	ControllerAfter  = "controller.after"
	RouterMatched    = "router.matched"
)

const (
	stateNew int32 = iota
	stateDispatching
	stateSealed
)

// Event carries a name, a mutable bag of arguments and a one-way stop flag.
// An Event is created fresh for every dispatch and is sealed when that dispatch
// returns; it must not be retained by listeners.
type Event struct {
	id      string
	name    string
	args    map[string]any
	stopped atomic.Bool
	state   atomic.Int32
}

// NewEvent creates an event named name. args is copied, the caller's map is
// never modified. The copy is shallow: slices and maps stored as values are
// shared with the caller.
func NewEvent(name string, args map[string]any) *Event {
	e := &Event{
		id:   uuid.NewString(),
		name: name,
		args: make(map[string]any, len(args)),
	}
	for k, v := range args {
		e.args[k] = v
	}
	return e
}

// Name returns the dispatch key.
func (e *Event) Name() string { return e.name }

// ID returns a random identifier used to correlate log lines.
func (e *Event) ID() string { return e.id }

// Argument returns the value bound to key, or def if key is unbound.
func (e *Event) Argument(key string, def any) any {
	if v, ok := e.args[key]; ok {
		return v
	}
	return def
}

// HasArgument reports whether key is bound.
func (e *Event) HasArgument(key string) bool {
	_, ok := e.args[key]
	return ok
}

// SetArgument binds key to value, overwriting any previous value. Listeners
// invoked later in the same dispatch observe the new value.
// Setting an argument on a sealed event panics.
func (e *Event) SetArgument(key string, value any) *Event {
	if e.state.Load() == stateSealed {
		panic(fmt.Sprintf("events: SetArgument(%q) on sealed event %q", key, e.name))
	}
	e.args[key] = value
	return e
}

// Arguments returns a copy of the argument bag.
func (e *Event) Arguments() map[string]any {
	out := make(map[string]any, len(e.args))
	for k, v := range e.args {
		out[k] = v
	}
	return out
}

// StopPropagation prevents delivery to listeners after the current one.
func (e *Event) StopPropagation() { e.stopped.Store(true) }

// IsPropagationStopped reports whether StopPropagation was called.
func (e *Event) IsPropagationStopped() bool { return e.stopped.Load() }

// Sealed reports whether the dispatch owning this event has returned.
func (e *Event) Sealed() bool { return e.state.Load() == stateSealed }

func (e *Event) String() string {
	return fmt.Sprintf("[Event name=%s id=%s stopped=%t]", e.name, e.id, e.IsPropagationStopped())
}

// ArgumentAs returns the argument bound to key as a T. def is returned when the
// key is unbound or holds a value of another type.
func ArgumentAs[T any](e *Event, key string, def T) T {
	v, ok := e.args[key]
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

func (e *Event) begin() bool {
	return e.state.CompareAndSwap(stateNew, stateDispatching)
}

func (e *Event) seal() { e.state.Store(stateSealed) }
