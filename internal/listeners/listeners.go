// Package listeners holds the stock listeners the skeleton registers.
package listeners

import (
	"slices"
	"sync/atomic"

	"skeleton/internal/events"
	"skeleton/internal/response"
)

// Event names used by the sample listeners.
const (
	BeforeSomething = "before-something"
	Something       = "something"
)

// appendInt appends n to the []int argument "foo". The slice is clipped so
// the caller's backing array is never written.
func appendInt(e *events.Event, n int) {
	foo := events.ArgumentAs[[]int](e, "foo", nil)
	e.SetArgument("foo", append(slices.Clip(foo), n))
}

// markRan appends who to the []string argument "ran".
func markRan(e *events.Event, who string) {
	ran := events.ArgumentAs[[]string](e, "ran", nil)
	e.SetArgument("ran", append(slices.Clip(ran), who))
}

// Foo appends 1 on before-something and records itself on something.
type Foo struct{}

func (f *Foo) OnBeforeSomething(e *events.Event) error {
	appendInt(e, 1)
	return nil
}

func (f *Foo) OnSomething(e *events.Event) error {
	markRan(e, "foo")
	return nil
}

func (f *Foo) SubscribedEvents() []events.Subscription {
	return []events.Subscription{
		{Event: BeforeSomething, Handler: events.HandlerFunc(f.OnBeforeSomething)},
		{Event: Something, Handler: events.HandlerFunc(f.OnSomething)},
	}
}

// Bar appends 2 on before-something and, running ahead of Foo, stops
// propagation of something.
type Bar struct{}

func (b *Bar) OnBeforeSomething(e *events.Event) error {
	appendInt(e, 2)
	return nil
}

func (b *Bar) OnSomething(e *events.Event) error {
	markRan(e, "bar")
	e.StopPropagation()
	return nil
}

func (b *Bar) SubscribedEvents() []events.Subscription {
	return []events.Subscription{
		{Event: BeforeSomething, Handler: events.HandlerFunc(b.OnBeforeSomething)},
		{Event: Something, Handler: events.HandlerFunc(b.OnSomething), Priority: 10},
	}
}

// Maintenance vetoes every action with 503 while enabled.
type Maintenance struct {
	enabled atomic.Bool
	Message string
}

// NewMaintenance returns a Maintenance listener in the given state.
func NewMaintenance(enabled bool, msg string) *Maintenance {
	m := &Maintenance{Message: msg}
	m.enabled.Store(enabled)
	return m
}

func (m *Maintenance) SetEnabled(on bool) { m.enabled.Store(on) }
func (m *Maintenance) Enabled() bool      { return m.enabled.Load() }

func (m *Maintenance) Handle(e *events.Event) error {
	if !m.enabled.Load() {
		return nil
	}
	e.SetArgument("response", response.ServiceUnavailable(m.Message).WithHeader("Retry-After", "120"))
	e.StopPropagation()
	return nil
}

// MaintenancePriority places the maintenance check ahead of ordinary listeners.
const MaintenancePriority = 1000

// ControllerHeader stamps X-Controller on every action response.
type ControllerHeader struct{}

func (ControllerHeader) Handle(e *events.Event) error {
	resp := events.ArgumentAs[*response.Response](e, "response", nil)
	if resp == nil {
		return nil
	}
	ctl := events.ArgumentAs(e, "controller", "")
	act := events.ArgumentAs(e, "action", "")
	resp.WithHeader("X-Controller", ctl+"."+act)
	return nil
}
