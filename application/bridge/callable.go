package bridge

import (
	"context"

	"github.com/mexbridge/mexbridge/domain/entities"
)

// Callable is a runtime function bound to a calling convention. It is an
// immutable value; copies are independent and safe to share.
type Callable struct {
	bridge  *Bridge
	target  string
	kind    entities.CallKind
	npos    int
	outputs int
}

// Wrap returns a Callable that calls target with every argument positional.
func (b *Bridge) Wrap(target string) Callable {
	return b.WrapKeyword(target, entities.AllPositional)
}

// WrapKeyword returns a Callable that calls target as CallKeyword(target, npos, ...)
// would. The runtime is not touched until the Callable is invoked.
func (b *Bridge) WrapKeyword(target string, npos int) Callable {
	return Callable{
		bridge:  b,
		target:  target,
		kind:    entities.KindKeyword,
		npos:    npos,
		outputs: 1,
	}
}

// WrapRaw initializes the runtime now and returns a Callable that calls
// target through RawCall.
func (b *Bridge) WrapRaw(ctx context.Context, target string) (Callable, error) {
	if err := b.EnsureInitialized(ctx); err != nil {
		return Callable{}, err
	}
	return Callable{
		bridge:  b,
		target:  target,
		kind:    entities.KindMex,
		npos:    entities.AllPositional,
		outputs: 1,
	}, nil
}

// WithOutputs returns a copy of c that returns exactly n results.
func (c Callable) WithOutputs(n int) Callable {
	c.outputs = n
	return c
}

// Target returns the runtime function name.
func (c Callable) Target() string { return c.target }

// Kind returns the calling convention.
func (c Callable) Kind() entities.CallKind { return c.kind }

// PositionalCount returns the bound positional count.
func (c Callable) PositionalCount() int { return c.npos }

// Invoke calls the bound function with args.
func (c Callable) Invoke(ctx context.Context, args ...any) ([]any, error) {
	if c.kind == entities.KindMex {
		return c.bridge.RawCall(ctx, c.outputs, c.target, args...)
	}
	return c.bridge.CallKeywordN(ctx, c.outputs, c.target, c.npos, args...)
}

// Func returns Invoke as a plain function value.
func (c Callable) Func() func(context.Context, ...any) ([]any, error) {
	return c.Invoke
}
