package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// MaxRequestSize bounds a single callback request read from a guest (1MB).
const MaxRequestSize = 1 << 20

// Registry is an immutable set of named callbacks. It is safe for
// concurrent use once built.
type Registry struct {
	handlers map[string]ByteHandler
	names    []string
}

type registryBuilder struct {
	handlers   map[string]ByteHandler
	middleware []Middleware
	errs       []error
}

// RegistryOption configures a Registry under construction.
type RegistryOption func(*registryBuilder)

// NewRegistry builds a Registry. Registering a name twice is an error.
//
//	reg, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithMiddleware(hostfuncs.RecoverPanics()),
//	    hostfuncs.WithBuiltins(logger, info),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{handlers: make(map[string]ByteHandler)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	r := &Registry{
		handlers: make(map[string]ByteHandler, len(b.handlers)),
		names:    make([]string, 0, len(b.handlers)),
	}
	for name, h := range b.handlers {
		// First middleware is outermost.
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		r.handlers[name] = h
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Invoke runs the named callback. An unknown name yields a NOT_FOUND
// ErrorResponse rather than a Go error.
func (r *Registry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	h, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}
	return h(WithCallbackName(ctx, name), payload)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (b *registryBuilder) add(name string, h ByteHandler) {
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("callback name cannot be empty"))
		return
	}
	if _, exists := b.handlers[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate callback name: %q", name))
		return
	}
	b.handlers[name] = h
}

// WithByteHandler registers a raw callback.
func WithByteHandler(name string, h ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		b.add(name, h)
	}
}

// WithHandler registers a typed callback with JSON encoding.
func WithHandler[Req any, Resp any](name string, fn CallbackFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		b.add(name, NewJSONHandler(fn))
	}
}

// WithMiddleware wraps every callback. Middleware added first runs first.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
