// Package controller defines controllers, their actions and the request
// context actions run with. Invoke wraps every action in the
// controller.before / controller.after events.
package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"skeleton/internal/events"
	"skeleton/internal/response"
	"skeleton/internal/translation"
)

// ErrActionNotFound is returned when a controller has no action of the given name.
var ErrActionNotFound = errors.New("controller: action not found")

// Action handles one request. Returning a *response.Response as the error is
// the same as returning it as the response.
type Action func(c *Context) (*response.Response, error)

// Controller exposes its actions by name.
type Controller interface {
	Actions() map[string]Action
}

// Context is what an action sees of the current request.
type Context struct {
	Request    *http.Request
	Params     map[string]string
	Dispatcher *events.Dispatcher
	Translator *translation.Translator
	Locale     string
	Logger     zerolog.Logger
}

// Param returns the route parameter name, or "".
func (c *Context) Param(name string) string { return c.Params[name] }

// T translates key in the request locale.
func (c *Context) T(key string, params map[string]any) string {
	if c.Translator == nil {
		return translation.Substitute(key, params)
	}
	return c.Translator.Translate(c.Locale, key, params)
}

// Trigger dispatches an event on the request's dispatcher.
func (c *Context) Trigger(name string, args map[string]any) (*events.Event, error) {
	if c.Dispatcher == nil {
		return nil, fmt.Errorf("controller: no dispatcher for event %q", name)
	}
	return c.Dispatcher.Trigger(name, args)
}

// Base is embedded by controllers for response helpers.
type Base struct{}

// Respond returns a 200 response with body.
func (Base) Respond(body any) *response.Response { return response.OK(body) }

// Fail returns an error response.
func (Base) Fail(status int, msg string) *response.Response { return response.Error(status, msg) }

// Invoke runs the named action of ctl:
//
//  1. controller.before is triggered with controller, action and request. If a
//     listener stops it, its "response" argument is returned, or 403 when unset.
//  2. The action runs.
//  3. controller.after is triggered with the response; listeners may replace
//     the "response" argument, and the final value is returned.
//
// Listener errors are returned unchanged.
func Invoke(ctl Controller, controllerName, actionName string, c *Context) (*response.Response, error) {
	act, ok := ctl.Actions()[actionName]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrActionNotFound, controllerName, actionName)
	}
	log := c.Logger.With().Str("controller", controllerName).Str("action", actionName).Logger()

	before, err := c.Trigger(events.ControllerBefore, map[string]any{
		"controller": controllerName,
		"action":     actionName,
		"request":    c.Request,
		"locale":     c.Locale,
	})
	if err != nil {
		return nil, err
	}
	if before.IsPropagationStopped() {
		log.Debug().Str("event_id", before.ID()).Msg("action vetoed by listener")
		if r := events.ArgumentAs[*response.Response](before, "response", nil); r != nil {
			return r, nil
		}
		return response.Forbidden(""), nil
	}

	resp, err := act(c)
	if err != nil {
		var r *response.Response
		if !errors.As(err, &r) {
			return nil, err
		}
		resp = r
	}
	if resp == nil {
		resp = response.NoContent()
	}

	after, err := c.Trigger(events.ControllerAfter, map[string]any{
		"controller": controllerName,
		"action":     actionName,
		"request":    c.Request,
		"locale":     c.Locale,
		"response":   resp,
	})
	if err != nil {
		return nil, err
	}
	if r := events.ArgumentAs[*response.Response](after, "response", nil); r != nil {
		resp = r
	}
	log.Debug().Int("status", resp.StatusCode()).Msg("action done")
	return resp, nil
}
