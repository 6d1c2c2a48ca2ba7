package bridge

import (
	"context"
	"fmt"

	"github.com/mexbridge/mexbridge/domain/callconv"
	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
)

// RawCall calls target with args forwarded verbatim and returns exactly nout
// results. At least one result slot is always requested from the runtime.
// A negative nout is an *errors.OutputCountError and reaches no endpoint.
func (b *Bridge) RawCall(ctx context.Context, nout int, target string, args ...any) ([]any, error) {
	if err := callconv.ValidateOutputs(target, nout); err != nil {
		return nil, err
	}
	req := entities.CallRequest{
		Kind:            entities.KindMex,
		Target:          target,
		PositionalCount: entities.AllPositional,
		Arguments:       args,
		Outputs:         callconv.RequestedSlots(nout),
	}
	return b.dispatch(ctx, req, nout, target)
}

// Evaluate evaluates each expression in the runtime and returns one value
// per expression, in input order.
func (b *Bridge) Evaluate(ctx context.Context, exprs ...string) ([]any, error) {
	args := make([]any, len(exprs))
	for i, expr := range exprs {
		args[i] = expr
	}
	return b.RawCall(ctx, len(exprs), entities.EvalEntry, args...)
}

// Call calls target with every argument positional and returns its first result.
func (b *Bridge) Call(ctx context.Context, target string, args ...any) ([]any, error) {
	return b.CallKeywordN(ctx, 1, target, entities.AllPositional, args...)
}

// CallKeyword calls target with args[:npos] positional and args[npos:] as
// alternating key, value pairs, returning its first result. A negative npos
// makes every argument positional.
func (b *Bridge) CallKeyword(ctx context.Context, target string, npos int, args ...any) ([]any, error) {
	return b.CallKeywordN(ctx, 1, target, npos, args...)
}

// CallKeywordN is CallKeyword returning exactly nout results. Arity and
// nout are checked before the runtime is touched, so an *errors.ArityError or
// *errors.OutputCountError never has side effects.
func (b *Bridge) CallKeywordN(ctx context.Context, nout int, target string, npos int, args ...any) ([]any, error) {
	if err := callconv.ValidateOutputs(target, nout); err != nil {
		return nil, err
	}
	if err := callconv.ValidateArity(target, npos, len(args)); err != nil {
		return nil, err
	}
	if npos < 0 {
		npos = entities.AllPositional
	}

	fwd := make([]any, 0, len(args)+2)
	fwd = append(fwd, target, int32(npos)) //nolint:gosec // G115: positional counts are argument counts
	fwd = append(fwd, args...)

	req := entities.CallRequest{
		Kind:            entities.KindKeyword,
		Target:          entities.KeywordCallEntry,
		PositionalCount: npos,
		Arguments:       fwd,
		Outputs:         callconv.RequestedSlots(nout),
	}
	return b.dispatch(ctx, req, nout, target)
}

// dispatch is the single path to the endpoint. label names the function the
// caller asked for, which differs from req.Target for keyword calls.
func (b *Bridge) dispatch(ctx context.Context, req entities.CallRequest, nout int, label string) ([]any, error) {
	if err := b.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	b.logger.DebugContext(ctx, "bridge: dispatching call",
		"kind", req.Kind,
		"target", label,
		"nargs", len(req.Arguments),
		"nout", req.Outputs,
	)

	raw, err := b.endpoint.Mex(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call to %s did not complete: %w", label, err)
	}

	res := callconv.DecodeResult(raw)
	if res.Failed {
		return nil, &errors.RuntimeCallError{Target: label, Payload: res.Payload}
	}
	return callconv.ShapeOutputs(res.Values, nout), nil
}
