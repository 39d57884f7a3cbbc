package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"skeleton/internal/events"
	"skeleton/internal/response"
	"skeleton/internal/translation"
)

type echoController struct {
	Base
	ran int
}

func (e *echoController) Actions() map[string]Action {
	return map[string]Action{
		"echo": func(c *Context) (*response.Response, error) {
			e.ran++
			return e.Respond(map[string]string{"id": c.Param("id")}), nil
		},
		"deny": func(c *Context) (*response.Response, error) {
			e.ran++
			return nil, e.Fail(http.StatusConflict, "taken")
		},
		"broken": func(c *Context) (*response.Response, error) {
			return nil, errors.New("db down")
		},
		"empty": func(c *Context) (*response.Response, error) { return nil, nil },
	}
}

func newContext(d *events.Dispatcher) *Context {
	return &Context{
		Request:    httptest.NewRequest(http.MethodGet, "/x", nil),
		Params:     map[string]string{"id": "42"},
		Dispatcher: d,
		Logger:     zerolog.Nop(),
	}
}

func TestInvoke_RunsActionBetweenEvents(t *testing.T) {
	d := events.NewDispatcher()
	var seen []string
	_ = d.AddListener(events.ControllerBefore, events.HandlerFunc(func(e *events.Event) error {
		seen = append(seen, "before:"+events.ArgumentAs(e, "action", ""))
		return nil
	}), 0)
	_ = d.AddListener(events.ControllerAfter, events.HandlerFunc(func(e *events.Event) error {
		r := events.ArgumentAs[*response.Response](e, "response", nil)
		seen = append(seen, "after:"+http.StatusText(r.StatusCode()))
		return nil
	}), 0)
	ctl := &echoController{}
	resp, err := Invoke(ctl, "echo", "echo", newContext(d))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.StatusCode() != http.StatusOK || ctl.ran != 1 {
		t.Fatalf("status=%d ran=%d", resp.StatusCode(), ctl.ran)
	}
	if len(seen) != 2 || seen[0] != "before:echo" || seen[1] != "after:OK" {
		t.Fatalf("seen=%v", seen)
	}
}

func TestInvoke_BeforeStopDefaultsTo403(t *testing.T) {
	d := events.NewDispatcher()
	_ = d.AddListener(events.ControllerBefore, events.HandlerFunc(func(e *events.Event) error {
		e.StopPropagation()
		return nil
	}), 0)
	ctl := &echoController{}
	resp, err := Invoke(ctl, "echo", "echo", newContext(d))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.StatusCode() != http.StatusForbidden || ctl.ran != 0 {
		t.Fatalf("status=%d ran=%d", resp.StatusCode(), ctl.ran)
	}
}

func TestInvoke_BeforeStopWithResponse(t *testing.T) {
	d := events.NewDispatcher()
	_ = d.AddListener(events.ControllerBefore, events.HandlerFunc(func(e *events.Event) error {
		e.SetArgument("response", response.ServiceUnavailable("maintenance"))
		e.StopPropagation()
		return nil
	}), 0)
	resp, err := Invoke(&echoController{}, "echo", "echo", newContext(d))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", resp.StatusCode())
	}
}

func TestInvoke_AfterRewritesResponse(t *testing.T) {
	d := events.NewDispatcher()
	_ = d.AddListener(events.ControllerAfter, events.HandlerFunc(func(e *events.Event) error {
		r := events.ArgumentAs[*response.Response](e, "response", nil)
		e.SetArgument("response", r.WithHeader("X-Seen", "1"))
		return nil
	}), 0)
	_ = d.AddListener(events.ControllerAfter, events.HandlerFunc(func(e *events.Event) error {
		e.SetArgument("response", response.Created("replaced"))
		return nil
	}), -1)
	resp, err := Invoke(&echoController{}, "echo", "echo", newContext(d))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated || resp.Body != "replaced" {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestInvoke_ErrorPaths(t *testing.T) {
	d := events.NewDispatcher()
	ctl := &echoController{}
	resp, err := Invoke(ctl, "echo", "deny", newContext(d))
	if err != nil || resp.StatusCode() != http.StatusConflict {
		t.Fatalf("response-as-error: resp=%v err=%v", resp, err)
	}
	if _, err := Invoke(ctl, "echo", "broken", newContext(d)); err == nil || err.Error() != "db down" {
		t.Fatalf("generic err=%v", err)
	}
	if _, err := Invoke(ctl, "echo", "missing", newContext(d)); !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("missing err=%v", err)
	}
	resp, err = Invoke(ctl, "echo", "empty", newContext(d))
	if err != nil || resp.StatusCode() != http.StatusNoContent {
		t.Fatalf("empty: resp=%v err=%v", resp, err)
	}
}

func TestInvoke_ListenerErrorPropagates(t *testing.T) {
	d := events.NewDispatcher()
	boom := errors.New("listener broke")
	_ = d.AddListener(events.ControllerBefore, events.HandlerFunc(func(e *events.Event) error { return boom }), 0)
	ctl := &echoController{}
	if _, err := Invoke(ctl, "echo", "echo", newContext(d)); err != boom {
		t.Fatalf("err=%v", err)
	}
	if ctl.ran != 0 {
		t.Fatalf("action ran after listener failure")
	}
}

func TestContext_TranslateAndTrigger(t *testing.T) {
	tr := translation.New("en")
	tr.Add("en", map[string]string{"hi": "Hi {name}"})
	c := &Context{Translator: tr, Locale: "de"}
	if got := c.T("hi", map[string]any{"name": "Bo"}); got != "Hi Bo" {
		t.Fatalf("T=%q", got)
	}
	c.Translator = nil
	if got := c.T("raw {x}", map[string]any{"x": 1}); got != "raw 1" {
		t.Fatalf("T without translator=%q", got)
	}
	if _, err := c.Trigger("x", nil); err == nil {
		t.Fatalf("expected error without dispatcher")
	}
}
