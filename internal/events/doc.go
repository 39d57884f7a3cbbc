// Package events provides the synchronous, in-process event dispatcher used by
// controllers and the router.
//
// A Dispatcher keeps, per event name, an ordered list of listener
// registrations: higher priority first, ties in registration order. Triggering
// an event delivers it to a snapshot of that list taken when dispatch starts;
// listeners added or removed while the event is being delivered only affect the
// next trigger. Listeners share the Event's argument bag and may halt delivery
// with StopPropagation.
//
// Failure model:
//
//   - A listener returning an error aborts the dispatch; Trigger returns the
//     same error value, unwrapped.
//   - A listener panic is not recovered.
//
// Files:
//
//   - event.go: Event and its argument bag.
//   - handler.go: Handler, HandlerFunc, Subscriber and handler identity.
//   - dispatcher.go: registry and delivery.
//   - metrics.go: Prometheus counters for triggers, stops and failures.
package events
