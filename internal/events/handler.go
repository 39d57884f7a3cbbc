package events

import (
	"reflect"
	"unsafe"
)

// Handler receives events. Returning an error aborts the current dispatch.
type Handler interface {
	Handle(e *Event) error
}

// HandlerFunc adapts an ordinary function to a Handler.
// Two HandlerFunc values are the same listener only if they are the same
// function value; keep the value around to remove it later.
type HandlerFunc func(e *Event) error

// Handle calls f(e).
func (f HandlerFunc) Handle(e *Event) error { return f(e) }

// Subscription describes one listener a Subscriber wants registered.
type Subscription struct {
	Event    string
	Handler  Handler
	Priority int
}

// Subscriber declares a group of listeners registered and removed together.
type Subscriber interface {
	SubscribedEvents() []Subscription
}

type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// funcKey identifies a function handler by its closure pointer. Distinct
// closures of the same literal get distinct keys.
type funcKey struct {
	typ reflect.Type
	ptr unsafe.Pointer
}

// handlerKey returns the identity used to match registrations.
func handlerKey(h Handler) (any, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Func:
		if v.IsNil() {
			return nil, ErrNilHandler
		}
		var a any = h
		return funcKey{typ: v.Type(), ptr: (*eface)(unsafe.Pointer(&a)).data}, nil
	case reflect.Pointer, reflect.Map, reflect.Chan:
		if v.IsNil() {
			return nil, ErrNilHandler
		}
	}
	// Comparable on the value also inspects interface fields holding maps or slices.
	if !v.Comparable() {
		return nil, ErrHandlerNotComparable
	}
	return h, nil
}
