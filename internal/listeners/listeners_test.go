package listeners

import (
	"net/http"
	"testing"

	"skeleton/internal/events"
	"skeleton/internal/response"
)

func setup(t *testing.T) *events.Dispatcher {
	t.Helper()
	d := events.NewDispatcher()
	if err := d.AddSubscriber(&Foo{}); err != nil {
		t.Fatalf("foo: %v", err)
	}
	if err := d.AddSubscriber(&Bar{}); err != nil {
		t.Fatalf("bar: %v", err)
	}
	return d
}

func TestBeforeSomething_AppendsInRegistrationOrder(t *testing.T) {
	d := setup(t)
	e, err := d.Trigger(BeforeSomething, map[string]any{"foo": []int{}})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	foo := events.ArgumentAs[[]int](e, "foo", nil)
	if len(foo) != 2 || foo[0] != 1 || foo[1] != 2 {
		t.Fatalf("foo=%v", foo)
	}
}

func TestBeforeSomething_LeavesCallerSliceAlone(t *testing.T) {
	d := setup(t)
	backing := make([]int, 0, 8)
	e, err := d.Trigger(BeforeSomething, map[string]any{"foo": backing})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if foo := events.ArgumentAs[[]int](e, "foo", nil); len(foo) != 2 {
		t.Fatalf("foo=%v", foo)
	}
	if got := backing[:cap(backing)][:2]; got[0] != 0 || got[1] != 0 {
		t.Fatalf("caller backing array written: %v", got)
	}
}

func TestSomething_BarStopsFoo(t *testing.T) {
	d := setup(t)
	e, err := d.Trigger(Something, nil)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	ran := events.ArgumentAs[[]string](e, "ran", nil)
	if len(ran) != 1 || ran[0] != "bar" {
		t.Fatalf("ran=%v", ran)
	}
	if !e.IsPropagationStopped() {
		t.Fatalf("expected stopped")
	}
}

func TestRemoveSubscriber_RestoresFoo(t *testing.T) {
	d := events.NewDispatcher()
	foo, bar := &Foo{}, &Bar{}
	_ = d.AddSubscriber(foo)
	_ = d.AddSubscriber(bar)
	d.RemoveSubscriber(bar)
	e, _ := d.Trigger(Something, nil)
	ran := events.ArgumentAs[[]string](e, "ran", nil)
	if len(ran) != 1 || ran[0] != "foo" {
		t.Fatalf("ran=%v", ran)
	}
}

func TestMaintenance(t *testing.T) {
	m := NewMaintenance(false, "back soon")
	d := events.NewDispatcher()
	_ = d.AddListener(events.ControllerBefore, m, MaintenancePriority)
	e, _ := d.Trigger(events.ControllerBefore, nil)
	if e.IsPropagationStopped() {
		t.Fatalf("disabled maintenance stopped event")
	}
	m.SetEnabled(true)
	e, _ = d.Trigger(events.ControllerBefore, nil)
	resp := events.ArgumentAs[*response.Response](e, "response", nil)
	if !e.IsPropagationStopped() || resp == nil || resp.StatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("event=%v resp=%v", e, resp)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
}

func TestControllerHeader(t *testing.T) {
	d := events.NewDispatcher()
	_ = d.AddListener(events.ControllerAfter, ControllerHeader{}, 0)
	resp := response.OK("x")
	_, _ = d.Trigger(events.ControllerAfter, map[string]any{"controller": "hello", "action": "greet", "response": resp})
	if got := resp.Header.Get("X-Controller"); got != "hello.greet" {
		t.Fatalf("header=%q", got)
	}
	if _, err := d.Trigger(events.ControllerAfter, nil); err != nil {
		t.Fatalf("no response: %v", err)
	}
}
