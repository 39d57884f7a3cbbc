// Package router maps HTTP routes to controller actions resolved from the provider.
package router

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"skeleton/internal/controller"
	"skeleton/internal/events"
	"skeleton/internal/provider"
	"skeleton/internal/response"
	"skeleton/internal/translation"
	"skeleton/pkg/types"
)

// Router is an http.Handler dispatching to controller actions.
type Router struct {
	mux        chi.Router
	provider   *provider.Provider
	translator *translation.Translator

	mu     sync.RWMutex
	routes []types.RouteInfo
}

// New returns a router resolving controllers from p. tr may be nil.
func New(p *provider.Provider, tr *translation.Translator) *Router {
	r := &Router{mux: chi.NewRouter(), provider: p, translator: tr}
	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		_ = response.NotFound("").Emit(w)
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		_ = response.MethodNotAllowed("").Emit(w)
	})
	return r
}

// Handle routes method+pattern to action of the controller registered in the
// provider under controllerName. The controller is resolved per request.
func (r *Router) Handle(method, pattern, controllerName, action string) {
	ri := types.RouteInfo{Method: strings.ToUpper(method), Pattern: pattern, Controller: controllerName, Action: action}
	r.mu.Lock()
	r.routes = append(r.routes, ri)
	r.mu.Unlock()
	r.mux.Method(ri.Method, pattern, r.handler(ri))
}

// Get routes GET requests for pattern to controllerName.action.
func (r *Router) Get(pattern, controllerName, action string) {
	r.Handle(http.MethodGet, pattern, controllerName, action)
}

// Post routes POST requests for pattern to controllerName.action.
func (r *Router) Post(pattern, controllerName, action string) {
	r.Handle(http.MethodPost, pattern, controllerName, action)
}

// Put routes PUT requests for pattern to controllerName.action.
func (r *Router) Put(pattern, controllerName, action string) {
	r.Handle(http.MethodPut, pattern, controllerName, action)
}

// Delete routes DELETE requests for pattern to controllerName.action.
func (r *Router) Delete(pattern, controllerName, action string) {
	r.Handle(http.MethodDelete, pattern, controllerName, action)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []types.RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.RouteInfo(nil), r.routes...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) handler(ri types.RouteInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log := r.provider.Logger().With().Str("route", ri.Method+" "+ri.Pattern).Logger()
		if rid := middleware.GetReqID(req.Context()); rid != "" {
			log = log.With().Str("request_id", rid).Logger()
		}
		resp, err := r.serve(ri, req, log)
		if err != nil {
			resp = errorResponse(err)
			lvl := zerolog.WarnLevel
			if resp.StatusCode() >= http.StatusInternalServerError {
				lvl = zerolog.ErrorLevel
			}
			log.WithLevel(lvl).Err(err).Int("status", resp.StatusCode()).Msg("request failed")
		}
		if err := resp.Emit(w); err != nil {
			log.Debug().Err(err).Msg("write response")
		}
	}
}

func (r *Router) serve(ri types.RouteInfo, req *http.Request, log zerolog.Logger) (*response.Response, error) {
	d := r.provider.Dispatcher()
	matched, err := d.Trigger(events.RouterMatched, map[string]any{
		"method":     ri.Method,
		"pattern":    ri.Pattern,
		"controller": ri.Controller,
		"action":     ri.Action,
		"request":    req,
	})
	if err != nil {
		return nil, err
	}
	if matched.IsPropagationStopped() {
		if resp := events.ArgumentAs[*response.Response](matched, "response", nil); resp != nil {
			return resp, nil
		}
	}

	v, err := r.provider.Resolve(ri.Controller)
	if err != nil {
		return nil, err
	}
	ctl, ok := v.(controller.Controller)
	if !ok {
		return nil, errors.New("router: " + ri.Controller + " is not a controller")
	}
	ctx := &controller.Context{
		Request:    req,
		Params:     urlParams(req),
		Dispatcher: d,
		Translator: r.translator,
		Locale:     r.locale(req),
		Logger:     log,
	}
	return controller.Invoke(ctl, ri.Controller, ri.Action, ctx)
}

func errorResponse(err error) *response.Response {
	var resp *response.Response
	switch {
	case errors.As(err, &resp):
		return resp
	case provider.IsNotFound(err), errors.Is(err, controller.ErrActionNotFound):
		return response.NotFound(err.Error())
	default:
		return response.InternalServerError(err.Error())
	}
}

func urlParams(req *http.Request) map[string]string {
	rc := chi.RouteContext(req.Context())
	if rc == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(rc.URLParams.Keys))
	for i, k := range rc.URLParams.Keys {
		if k == "*" {
			continue
		}
		out[k] = rc.URLParams.Values[i]
	}
	return out
}

// locale picks ?lang=, then the first Accept-Language tag, when the translator
// has it; otherwise the translator's fallback.
func (r *Router) locale(req *http.Request) string {
	if r.translator == nil {
		return translation.DefaultLocale
	}
	known := r.translator.Locales()
	candidates := []string{req.URL.Query().Get("lang")}
	for _, part := range strings.Split(req.Header.Get("Accept-Language"), ",") {
		candidates = append(candidates, primaryTag(part))
	}
	for _, c := range candidates {
		c = primaryTag(c)
		if c == "" {
			continue
		}
		for _, k := range known {
			if k == c {
				return c
			}
		}
	}
	return r.translator.Fallback()
}

func primaryTag(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
