package event

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Checker evaluates one condition family. It returns NotMet while the
// condition is false and an error only when it cannot tell.
type Checker func(ctx context.Context, args Args) (Result, error)

// binding is shared by a name and all of its aliases.
type binding struct {
	checker Checker
}

// Registry maps event names to checkers. Names are case-sensitive.
//
// Registration is expected at startup; Invoke is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*binding
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for invocation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register binds name to checker. Registering a name that is already bound
// replaces its checker, and the replacement is seen through every alias of
// that name. This is how host applications add or override events.
//
// Register panics if name is empty or checker is nil.
func (r *Registry) Register(name string, checker Checker) {
	if name == "" {
		panic("event: Register with empty name")
	}
	if checker == nil {
		panic("event: Register " + name + " with nil checker")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bindings[name]; ok {
		b.checker = checker
		return
	}
	r.bindings[name] = &binding{checker: checker}
}

// Alias binds newName to the same binding as existing, so both names always
// resolve to the same checker. Aliasing over a bound newName rebinds it.
func (r *Registry) Alias(existing, newName string) error {
	if newName == "" {
		panic("event: Alias with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[existing]
	if !ok {
		return &UnknownEventError{Name: existing}
	}
	r.bindings[newName] = b
	return nil
}

// Lookup returns the checker bound to name.
func (r *Registry) Lookup(name string) (Checker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return nil, false
	}
	return b.checker, true
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns every bound name, aliases included, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke resolves name and calls its checker with args, returning the
// checker's result unchanged. Unknown names fail with *UnknownEventError
// without calling any checker.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (Result, error) {
	checker, ok := r.Lookup(name)
	if !ok {
		return Result{}, &UnknownEventError{Name: name}
	}

	id, _ := nanoid.New(12)
	start := time.Now()
	result, err := checker(ctx, args)

	attrs := []any{
		"event", name,
		"invocation", id,
		"args", len(args),
		"duration", time.Since(start),
	}
	if err != nil {
		r.logger.DebugContext(ctx, "event check failed", append(attrs, "error", err)...)
		return Result{}, err
	}
	r.logger.DebugContext(ctx, "event checked", append(attrs, "met", result.IsMet())...)
	return result, nil
}
