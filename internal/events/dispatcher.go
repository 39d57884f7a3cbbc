package events

import (
	"reflect"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

type registration struct {
	handler  Handler
	key      any
	priority int
	seq      uint64
}

// before reports whether r is delivered ahead of o.
func (r *registration) before(o *registration) bool {
	if r.priority != o.priority {
		return r.priority > o.priority
	}
	return r.seq < o.seq
}

// Dispatcher owns listener registrations and delivers events to them.
// It is safe for concurrent use; listeners run without any lock held and may
// register or remove listeners, or trigger further events.
type Dispatcher struct {
	mu          sync.RWMutex
	listeners   map[string][]*registration
	subscribers map[Subscriber][]Subscription
	nextSeq     uint64
	log         zerolog.Logger
}

// NewDispatcher returns an empty dispatcher that logs nowhere.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners:   make(map[string][]*registration),
		subscribers: make(map[Subscriber][]Subscription),
		log:         zerolog.Nop(),
	}
}

// SetLogger installs a structured logger for registration and delivery debug lines.
func (d *Dispatcher) SetLogger(l zerolog.Logger) {
	d.mu.Lock()
	d.log = l.With().Str("component", "events").Logger()
	d.mu.Unlock()
}

// AddListener registers h for eventName. Listeners with a higher priority are
// delivered first; equal priorities are delivered in registration order.
// Registering a handler that is already registered for eventName updates its
// priority; it keeps its original registration order among equal priorities.
func (d *Dispatcher) AddListener(eventName string, h Handler, priority int) error {
	if eventName == "" {
		return ErrEmptyEventName
	}
	key, err := handlerKey(h)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(eventName, h, key, priority)
	return nil
}

func (d *Dispatcher) add(eventName string, h Handler, key any, priority int) {
	regs := d.listeners[eventName]
	var seq uint64
	if i := indexOf(regs, key); i >= 0 {
		if regs[i].priority == priority {
			return
		}
		seq = regs[i].seq
		d.log.Debug().Str("event", eventName).Int("from", regs[i].priority).Int("to", priority).Msg("updating listener priority")
		// Snapshots never alias this slice, so it can be edited in place.
		regs = slices.Delete(regs, i, i+1)
	} else {
		seq = d.nextSeq
		d.nextSeq++
		d.log.Debug().Str("event", eventName).Int("priority", priority).Msg("adding listener")
	}
	r := &registration{handler: h, key: key, priority: priority, seq: seq}
	pos := sort.Search(len(regs), func(i int) bool { return r.before(regs[i]) })
	d.listeners[eventName] = slices.Insert(regs, pos, r)
}

// RemoveListener unregisters h from eventName. Removing a handler that is not
// registered is a no-op.
func (d *Dispatcher) RemoveListener(eventName string, h Handler) {
	key, err := handlerKey(h)
	if err != nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remove(eventName, key)
}

func (d *Dispatcher) remove(eventName string, key any) {
	regs := d.listeners[eventName]
	i := indexOf(regs, key)
	if i < 0 {
		return
	}
	d.log.Debug().Str("event", eventName).Msg("removing listener")
	regs = slices.Delete(regs, i, i+1)
	if len(regs) == 0 {
		delete(d.listeners, eventName)
		return
	}
	d.listeners[eventName] = regs
}

// HasListener reports whether h is registered for eventName. A nil h asks
// whether any listener is registered for eventName.
func (d *Dispatcher) HasListener(eventName string, h Handler) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	regs := d.listeners[eventName]
	if h == nil {
		return len(regs) > 0
	}
	key, err := handlerKey(h)
	if err != nil {
		return false
	}
	return indexOf(regs, key) >= 0
}

// Listeners returns the handlers registered for eventName in delivery order.
// The returned slice is a copy.
func (d *Dispatcher) Listeners(eventName string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	regs := d.listeners[eventName]
	out := make([]Handler, len(regs))
	for i, r := range regs {
		out[i] = r.handler
	}
	return out
}

// ListenerCount returns the number of listeners registered for eventName.
func (d *Dispatcher) ListenerCount(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[eventName])
}

// EventNames returns the sorted names that have at least one listener.
func (d *Dispatcher) EventNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.listeners))
	for name := range d.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddSubscriber registers every subscription of s. Nothing is registered if
// any subscription is invalid.
func (d *Dispatcher) AddSubscriber(s Subscriber) error {
	if s == nil {
		return ErrNilHandler
	}
	if !reflect.ValueOf(s).Comparable() {
		return ErrHandlerNotComparable
	}
	subs := s.SubscribedEvents()
	keys := make([]any, len(subs))
	for i, sub := range subs {
		if sub.Event == "" {
			return ErrEmptyEventName
		}
		key, err := handlerKey(sub.Handler)
		if err != nil {
			return err
		}
		keys[i] = key
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, sub := range subs {
		d.add(sub.Event, sub.Handler, keys[i], sub.Priority)
	}
	d.subscribers[s] = append(d.subscribers[s], subs...)
	return nil
}

// RemoveSubscriber unregisters the handlers s was registered with.
func (d *Dispatcher) RemoveSubscriber(s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subscribers[s] {
		if key, err := handlerKey(sub.Handler); err == nil {
			d.remove(sub.Event, key)
		}
	}
	delete(d.subscribers, s)
}

// Trigger creates an event named eventName with a copy of args and dispatches it.
func (d *Dispatcher) Trigger(eventName string, args map[string]any) (*Event, error) {
	if eventName == "" {
		return nil, ErrEmptyEventName
	}
	return d.Dispatch(NewEvent(eventName, args))
}

// Dispatch delivers e to the listeners registered for its name at the moment
// dispatch begins, in delivery order. Delivery ends when a listener stops
// propagation, when a listener returns an error (which is returned as is), or
// when the listeners are exhausted. The event is sealed on return.
func (d *Dispatcher) Dispatch(e *Event) (*Event, error) {
	if e == nil {
		return nil, ErrNilEvent
	}
	if e.name == "" {
		return e, ErrEmptyEventName
	}
	if !e.begin() {
		return e, ErrEventDispatched
	}
	defer e.seal()

	snapshot, log := d.snapshot(e.name)
	eventsTriggered.WithLabelValues(e.name).Inc()
	log.Debug().Str("event", e.name).Str("event_id", e.id).Int("listeners", len(snapshot)).Msg("dispatching event")

	for _, h := range snapshot {
		if e.IsPropagationStopped() {
			break
		}
		if err := h.Handle(e); err != nil {
			eventsFailed.WithLabelValues(e.name).Inc()
			log.Debug().Str("event", e.name).Str("event_id", e.id).Err(err).Msg("listener failed")
			return e, err
		}
	}
	if e.IsPropagationStopped() {
		eventsStopped.WithLabelValues(e.name).Inc()
		log.Debug().Str("event", e.name).Str("event_id", e.id).Msg("propagation stopped")
	}
	return e, nil
}

func (d *Dispatcher) snapshot(eventName string) ([]Handler, zerolog.Logger) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	regs := d.listeners[eventName]
	out := make([]Handler, len(regs))
	for i, r := range regs {
		out[i] = r.handler
	}
	return out, d.log
}

func indexOf(regs []*registration, key any) int {
	for i, r := range regs {
		if r.key == key {
			return i
		}
	}
	return -1
}
