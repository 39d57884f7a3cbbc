package app

import (
	"net/http"

	"skeleton/internal/controller"
	"skeleton/internal/events"
	"skeleton/internal/listeners"
	"skeleton/internal/response"
)

// Hello is the sample controller. Its actions trigger the sample events and
// report what the listeners did.
type Hello struct {
	controller.Base
}

// GreetResponse is returned by the greet action.
type GreetResponse struct {
	Message string `json:"message"`
	Foo     []int  `json:"foo"`
}

// SomethingResponse is returned by the something action.
type SomethingResponse struct {
	Message string   `json:"message"`
	Ran     []string `json:"ran"`
	Stopped bool     `json:"stopped"`
}

func (h *Hello) Actions() map[string]controller.Action {
	return map[string]controller.Action{
		"greet":     h.Greet,
		"something": h.Something,
	}
}

// Greet triggers before-something and returns the greeting plus the values
// the listeners appended to foo.
func (h *Hello) Greet(c *controller.Context) (*response.Response, error) {
	name := c.Param("name")
	if name == "" {
		return nil, h.Fail(http.StatusBadRequest, "name is required")
	}
	ev, err := c.Trigger(listeners.BeforeSomething, map[string]any{"foo": []int{}, "name": name})
	if err != nil {
		return nil, err
	}
	return h.Respond(GreetResponse{
		Message: c.T("hello.greeting", map[string]any{"name": name}),
		Foo:     events.ArgumentAs[[]int](ev, "foo", []int{}),
	}), nil
}

// Something triggers something and reports which listeners ran.
func (h *Hello) Something(c *controller.Context) (*response.Response, error) {
	ev, err := c.Trigger(listeners.Something, nil)
	if err != nil {
		return nil, err
	}
	return h.Respond(SomethingResponse{
		Message: c.T("something.done", nil),
		Ran:     events.ArgumentAs[[]string](ev, "ran", []string{}),
		Stopped: ev.IsPropagationStopped(),
	}), nil
}
