package entities

import "fmt"

// CallKind tags the calling convention of a single cross-boundary invocation.
type CallKind string

const (
	// KindRawEval executes an expression for side effect only.
	KindRawEval CallKind = "raw-eval"

	// KindMex forwards the arguments verbatim to the target and returns a
	// discriminant followed by zero or more results.
	KindMex CallKind = "mex-call"

	// KindKeyword is a mex call routed through KeywordCallEntry, carrying a
	// positional count ahead of the flat argument list.
	KindKeyword CallKind = "keyword-call"
)

// AllPositional is the positional count meaning "every argument is positional".
const AllPositional = -1

// Runtime entry points reached through mex calls.
const (
	// EvalEntry evaluates one or more expression strings, one result each.
	EvalEntry = "MexInterop.eval"

	// KeywordCallEntry receives (target, npos, args...) and splits args into
	// positional and keyword parts before calling target.
	KeywordCallEntry = "MexInterop.kwcall"
)

// CallRequest describes one invocation crossing the endpoint boundary.
// It is built per call and discarded once the call returns.
type CallRequest struct {
	Kind   CallKind `json:"kind"`
	Target string   `json:"target"`

	// PositionalCount is only meaningful for KindKeyword; AllPositional otherwise.
	PositionalCount int `json:"npos"`

	Arguments []any `json:"args,omitempty"`

	// Outputs is the number of result slots requested from the runtime. The
	// bridge never asks for fewer than one.
	Outputs int `json:"nout"`
}

// CallResult is a decoded endpoint tuple.
type CallResult struct {
	// Values holds the results following the discriminant on success.
	Values []any

	// Payload is the runtime's own error value when Failed is set.
	Payload any

	Failed bool
}

// KeywordArg is one key/value pair taken from the tail of a keyword call.
type KeywordArg struct {
	Key   any
	Value any
}

// KeywordArgs is the split form of a keyword call's argument list.
type KeywordArgs struct {
	Positional []any
	Keywords   []KeywordArg
}

// Map returns the keyword pairs keyed by their string form. Later keys win.
// A key that is neither a string nor a fmt.Stringer is an error.
func (k KeywordArgs) Map() (map[string]any, error) {
	if len(k.Keywords) == 0 {
		return nil, nil
	}
	m := make(map[string]any, len(k.Keywords))
	for i, kw := range k.Keywords {
		switch key := kw.Key.(type) {
		case string:
			m[key] = kw.Value
		case fmt.Stringer:
			m[key.String()] = kw.Value
		default:
			return nil, fmt.Errorf("keyword %d: key must be a string, got %T (%v)", i, kw.Key, kw.Key)
		}
	}
	return m, nil
}
