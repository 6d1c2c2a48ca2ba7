// Package callconv holds the calling-convention rules shared by the bridge and
// the endpoints: keyword-call arity checks and splitting, decoding of the
// discriminant tuple, and shaping results to the requested output count.
package callconv

import (
	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
)

// ValidateArity checks a keyword call's argument count against npos.
// A negative npos means every argument is positional and nothing is checked.
func ValidateArity(target string, npos, nargs int) error {
	if npos < 0 {
		return nil
	}
	nkw := nargs - npos
	if nkw < 0 {
		return &errors.ArityError{
			Target:     target,
			Reason:     errors.ReasonPositionalExceedsTotal,
			Positional: npos,
			Total:      nargs,
		}
	}
	if nkw%2 != 0 {
		return &errors.ArityError{
			Target:     target,
			Reason:     errors.ReasonOddKeywordCount,
			Positional: npos,
			Total:      nargs,
		}
	}
	return nil
}

// ValidateOutputs rejects a negative result count.
func ValidateOutputs(target string, nout int) error {
	if nout < 0 {
		return &errors.OutputCountError{Target: target, Outputs: nout}
	}
	return nil
}

// SplitKeywordArgs divides args into the positional prefix args[:npos] and
// the alternating key, value pairs of args[npos:].
func SplitKeywordArgs(target string, npos int, args []any) (entities.KeywordArgs, error) {
	if err := ValidateArity(target, npos, len(args)); err != nil {
		return entities.KeywordArgs{}, err
	}
	if npos < 0 {
		return entities.KeywordArgs{Positional: args}, nil
	}

	split := entities.KeywordArgs{Positional: args[:npos]}
	for i := npos; i < len(args); i += 2 {
		split.Keywords = append(split.Keywords, entities.KeywordArg{Key: args[i], Value: args[i+1]})
	}
	return split, nil
}

// DecodeResult interprets a raw endpoint tuple. A bool first value marks
// success and the rest are results; anything else is the failure payload.
// An empty tuple is a failure with a nil payload.
func DecodeResult(raw []any) entities.CallResult {
	if len(raw) == 0 {
		return entities.CallResult{Failed: true}
	}
	if _, ok := raw[0].(bool); !ok {
		return entities.CallResult{Failed: true, Payload: raw[0]}
	}
	return entities.CallResult{Values: raw[1:]}
}

// RequestedSlots is the number of result slots to ask the runtime for.
// The convention always yields a value, so at least one slot is requested.
func RequestedSlots(nout int) int {
	if nout < 1 {
		return 1
	}
	return nout
}

// ShapeOutputs returns exactly nout values: extra results are dropped and
// missing ones are nil. A negative nout yields no values.
func ShapeOutputs(values []any, nout int) []any {
	if nout < 0 {
		nout = 0
	}
	out := make([]any, nout)
	copy(out, values)
	return out
}
