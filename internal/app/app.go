// Package app wires the provider, dispatcher, translator, router and the
// stock listeners into one runnable application.
package app

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"skeleton/internal/config"
	"skeleton/internal/events"
	"skeleton/internal/listeners"
	"skeleton/internal/provider"
	"skeleton/internal/router"
	"skeleton/internal/translation"
	"skeleton/pkg/types"
)

// Service names registered in the provider besides the core ones.
const (
	ServiceTranslator = "translator"
	ServiceRouter     = "router"
	ControllerHello   = "hello"
)

// builtinCatalogs are used when no locales directory is configured.
var builtinCatalogs = map[string]map[string]string{
	"en": {
		"hello.greeting":   "Hello, {name}!",
		"something.done":   "Something happened",
		"maintenance.down": "Down for maintenance",
	},
	"fr": {
		"hello.greeting":   "Bonjour, {name} !",
		"something.done":   "Quelque chose est arrivé",
		"maintenance.down": "En maintenance",
	},
}

// App is the composed application. It satisfies httpapi.Service.
type App struct {
	log         zerolog.Logger
	provider    *provider.Provider
	dispatcher  *events.Dispatcher
	translator  *translation.Translator
	router      *router.Router
	maintenance *listeners.Maintenance
	ready       atomic.Bool
}

// New builds the application from cfg. cfg is expected to carry defaults.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	tr, err := loadTranslator(cfg)
	if err != nil {
		return nil, err
	}

	d := events.NewDispatcher()
	d.SetLogger(log)

	a := &App{
		log:         log,
		dispatcher:  d,
		translator:  tr,
		provider:    provider.New(d, log),
		maintenance: listeners.NewMaintenance(cfg.Maintenance, tr.Translate(tr.Fallback(), "maintenance.down", nil)),
	}
	if err := a.registerListeners(); err != nil {
		return nil, err
	}

	a.provider.Instance(ServiceTranslator, tr)
	a.provider.Singleton(ControllerHello, func(*provider.Provider) (any, error) { return &Hello{}, nil })

	a.router = router.New(a.provider, tr)
	a.router.Get("/hello/{name}", ControllerHello, "greet")
	a.router.Post("/something", ControllerHello, "something")
	a.provider.Instance(ServiceRouter, a.router)

	a.ready.Store(true)
	return a, nil
}

func loadTranslator(cfg config.Config) (*translation.Translator, error) {
	if cfg.LocalesDir != "" {
		tr, err := translation.Load(cfg.LocalesDir, cfg.DefaultLocale)
		if err != nil {
			return nil, fmt.Errorf("app: load locales: %w", err)
		}
		return tr, nil
	}
	tr := translation.New(cfg.DefaultLocale)
	for locale, entries := range builtinCatalogs {
		tr.Add(locale, entries)
	}
	return tr, nil
}

func (a *App) registerListeners() error {
	for _, s := range []events.Subscriber{&listeners.Foo{}, &listeners.Bar{}} {
		if err := a.dispatcher.AddSubscriber(s); err != nil {
			return fmt.Errorf("app: subscriber %T: %w", s, err)
		}
	}
	if err := a.dispatcher.AddListener(events.ControllerBefore, a.maintenance, listeners.MaintenancePriority); err != nil {
		return err
	}
	return a.dispatcher.AddListener(events.ControllerAfter, listeners.ControllerHeader{}, 0)
}

// Ready reports whether the application finished wiring.
func (a *App) Ready() bool { return a.ready.Load() }

// SetReady flips readiness, e.g. while shutting down.
func (a *App) SetReady(v bool) { a.ready.Store(v) }

// Events lists every event name with its listener count.
func (a *App) Events() []types.EventInfo {
	names := a.dispatcher.EventNames()
	out := make([]types.EventInfo, 0, len(names))
	for _, n := range names {
		out = append(out, types.EventInfo{Name: n, Listeners: a.dispatcher.ListenerCount(n)})
	}
	return out
}

// Trigger dispatches name with args and reports the outcome.
func (a *App) Trigger(name string, args map[string]any) (types.EventResult, error) {
	ev, err := a.dispatcher.Trigger(name, args)
	if err != nil {
		return types.EventResult{}, err
	}
	return types.EventResult{
		Name:      ev.Name(),
		ID:        ev.ID(),
		Arguments: ev.Arguments(),
		Stopped:   ev.IsPropagationStopped(),
	}, nil
}

// Handler returns the application routes.
func (a *App) Handler() http.Handler { return a.router }

// Routes returns the route table.
func (a *App) Routes() []types.RouteInfo { return a.router.Routes() }

func (a *App) Provider() *provider.Provider        { return a.provider }
func (a *App) Dispatcher() *events.Dispatcher      { return a.dispatcher }
func (a *App) Translator() *translation.Translator { return a.translator }
func (a *App) Maintenance() *listeners.Maintenance { return a.maintenance }
