// Package provider is a small service container. Services are registered by
// name with a factory and resolved lazily; controllers are resolved from it by
// the router.
package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"skeleton/internal/events"
)

// Names of the services every Provider starts with.
const (
	ServiceEvents = "events"
	ServiceLogger = "logger"
)

var (
	// ErrServiceNotFound is returned when resolving an unregistered name.
	ErrServiceNotFound = errors.New("provider: service not found")
	// ErrCircularDependency is returned when a factory resolves itself, directly or not.
	ErrCircularDependency = errors.New("provider: circular dependency")
	// ErrServiceType is returned by ResolveAs when the service has another type.
	ErrServiceType = errors.New("provider: unexpected service type")
)

// IsNotFound reports whether err means the service does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrServiceNotFound) }

// Factory builds a service. It may resolve other services from p.
type Factory func(p *Provider) (any, error)

type entry struct {
	factory   Factory
	singleton bool
	built     bool
	value     any
}

type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// Provider maps service names to factories. The *Provider handed to a factory
// shares the registry and remembers the resolution chain, which is how cycles
// are detected without blocking concurrent resolutions.
type Provider struct {
	reg   *registry
	chain []string
}

// New returns a provider holding d under ServiceEvents and log under ServiceLogger.
func New(d *events.Dispatcher, log zerolog.Logger) *Provider {
	p := &Provider{reg: &registry{entries: make(map[string]*entry)}}
	p.Instance(ServiceEvents, d)
	p.Instance(ServiceLogger, log)
	return p
}

// Register adds a transient service: factory runs on every Resolve.
func (p *Provider) Register(name string, factory Factory) {
	p.set(name, &entry{factory: factory})
}

// Singleton adds a service whose factory runs once; the value is then reused.
// A failed build is not cached.
func (p *Provider) Singleton(name string, factory Factory) {
	p.set(name, &entry{factory: factory, singleton: true})
}

// Instance registers an already built value.
func (p *Provider) Instance(name string, v any) {
	p.set(name, &entry{singleton: true, built: true, value: v})
}

func (p *Provider) set(name string, e *entry) {
	p.reg.mu.Lock()
	p.reg.entries[name] = e
	p.reg.mu.Unlock()
}

// Has reports whether name is registered.
func (p *Provider) Has(name string) bool {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	_, ok := p.reg.entries[name]
	return ok
}

// Names returns the registered service names, sorted.
func (p *Provider) Names() []string {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	out := make([]string, 0, len(p.reg.entries))
	for n := range p.reg.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the service registered under name, building it if needed.
// Factories run without the registry lock so they can resolve dependencies.
func (p *Provider) Resolve(name string) (any, error) {
	p.reg.mu.Lock()
	e, ok := p.reg.entries[name]
	if !ok {
		p.reg.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	if e.built {
		v := e.value
		p.reg.mu.Unlock()
		return v, nil
	}
	p.reg.mu.Unlock()

	for _, n := range p.chain {
		if n == name {
			chain := strings.Join(append(append([]string(nil), p.chain...), name), " -> ")
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, chain)
		}
	}
	child := &Provider{reg: p.reg, chain: append(append([]string(nil), p.chain...), name)}
	v, err := e.factory(child)
	if err != nil {
		return nil, fmt.Errorf("provider: build %s: %w", name, err)
	}
	if !e.singleton {
		return v, nil
	}
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	// Concurrent first builds race; the first stored value wins.
	if !e.built {
		e.built = true
		e.value = v
	}
	return e.value, nil
}

// MustResolve is Resolve that panics on error; meant for wiring at startup.
func (p *Provider) MustResolve(name string) any {
	v, err := p.Resolve(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Dispatcher returns the event dispatcher registered under ServiceEvents.
func (p *Provider) Dispatcher() *events.Dispatcher {
	d, err := ResolveAs[*events.Dispatcher](p, ServiceEvents)
	if err != nil {
		panic(err)
	}
	return d
}

// Logger returns the logger registered under ServiceLogger.
func (p *Provider) Logger() zerolog.Logger {
	l, err := ResolveAs[zerolog.Logger](p, ServiceLogger)
	if err != nil {
		return zerolog.Nop()
	}
	return l
}

// ResolveAs resolves name and asserts it to T.
func ResolveAs[T any](p *Provider, name string) (T, error) {
	var zero T
	v, err := p.Resolve(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrServiceType, name, v)
	}
	return t, nil
}
