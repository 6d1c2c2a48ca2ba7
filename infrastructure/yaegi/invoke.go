package yaegi

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mexbridge/mexbridge/domain/callconv"
	"github.com/mexbridge/mexbridge/domain/entities"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// success builds a tuple whose discriminant marks success.
func success(values ...any) []any {
	return append([]any{true}, values...)
}

// failure builds a tuple carrying payload in place of the discriminant.
func failure(payload any) []any {
	return []any{payload}
}

// evalEach evaluates each argument as an expression, one result per argument.
func (e *Endpoint) evalEach(ctx context.Context, args []any) []any {
	results := make([]any, 0, len(args))
	for _, arg := range args {
		src, ok := arg.(string)
		if !ok {
			return failure(fmt.Errorf("%s: expression must be a string, got %T", entities.EvalEntry, arg))
		}
		v, err := e.interp.EvalWithContext(ctx, src)
		if err != nil {
			return failure(err)
		}
		results = append(results, valueOf(v))
	}
	return success(results...)
}

// keywordCall unpacks (target, npos, args...) and calls target, passing the
// keyword pairs as a trailing map[string]any when there are any.
func (e *Endpoint) keywordCall(ctx context.Context, args []any) []any {
	if len(args) < 2 {
		return failure(fmt.Errorf("%s: expected target and positional count", entities.KeywordCallEntry))
	}
	target, ok := args[0].(string)
	if !ok {
		return failure(fmt.Errorf("%s: target must be a string, got %T", entities.KeywordCallEntry, args[0]))
	}
	npos, ok := asInt(args[1])
	if !ok {
		return failure(fmt.Errorf("%s: positional count must be an integer, got %T", entities.KeywordCallEntry, args[1]))
	}

	split, err := callconv.SplitKeywordArgs(target, npos, args[2:])
	if err != nil {
		return failure(err)
	}
	kwargs, err := split.Map()
	if err != nil {
		return failure(fmt.Errorf("%s: %w", target, err))
	}
	return e.call(ctx, target, split.Positional, kwargs)
}

// call resolves target in the interpreter and calls it. A non-function
// target called without arguments yields its value.
func (e *Endpoint) call(ctx context.Context, target string, args []any, kwargs map[string]any) (out []any) {
	fn, err := e.interp.EvalWithContext(ctx, target)
	if err != nil {
		return failure(err)
	}
	if !fn.IsValid() {
		return failure(fmt.Errorf("%s has no value", target))
	}
	if fn.Kind() != reflect.Func {
		if len(args) == 0 && kwargs == nil {
			return success(valueOf(fn))
		}
		return failure(fmt.Errorf("%s is not callable (%s)", target, fn.Type()))
	}

	if kwargs != nil {
		args = append(append([]any{}, args...), kwargs)
	}
	in, err := convertArgs(fn.Type(), args)
	if err != nil {
		return failure(fmt.Errorf("%s: %w", target, err))
	}

	defer func() {
		if r := recover(); r != nil {
			out = failure(fmt.Errorf("%s panicked: %v", target, r))
		}
	}()
	return tupleOf(fn.Call(in))
}

// tupleOf converts call results. A trailing error result is not a value: when
// non-nil it becomes the failure payload, otherwise it is dropped.
func tupleOf(results []reflect.Value) []any {
	if n := len(results); n > 0 && results[n-1].Type() == errorType {
		last := results[n-1]
		if !last.IsNil() {
			return failure(last.Interface())
		}
		results = results[:n-1]
	}

	values := make([]any, len(results))
	for i, r := range results {
		values[i] = valueOf(r)
	}
	return success(values...)
}

// convertArgs matches host values to the parameters of fnType, converting
// between numeric kinds where Go allows it.
func convertArgs(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	nin := fnType.NumIn()
	variadic := fnType.IsVariadic()

	if (!variadic && len(args) != nin) || (variadic && len(args) < nin-1) {
		return nil, fmt.Errorf("expected %d arguments, got %d", nin, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if variadic && i >= nin-1 {
			pt = fnType.In(nin - 1).Elem()
		} else {
			pt = fnType.In(i)
		}

		v, err := convertArg(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = v
	}
	return in, nil
}

func convertArg(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot use nil as %s", pt)
		}
	}

	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(pt):
		return v, nil
	case isNumeric(v.Kind()) && isNumeric(pt.Kind()):
		return v.Convert(pt), nil
	case v.Kind() == pt.Kind() && v.Type().ConvertibleTo(pt):
		return v.Convert(pt), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, pt)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func asInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	default:
		return 0, false
	}
}

// valueOf unwraps an interpreter value for the host. Statements have no value.
func valueOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
