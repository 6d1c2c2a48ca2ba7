// Package wireformat defines the JSON documents exchanged with a WebAssembly
// runtime guest. Field names are part of the guest ABI and must stay stable.
package wireformat

import (
	"bytes"
	"encoding/json"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
)

// BootstrapWire is passed to the guest's mex_bootstrap export.
type BootstrapWire struct {
	RuntimeHome string `json:"runtime_home"`
	SysImage    string `json:"sys_image,omitempty"`
	LibPath     string `json:"lib_path,omitempty"`
	HostRoot    string `json:"host_root,omitempty"`
}

// ExecWire is passed to the guest's mex_exec export.
type ExecWire struct {
	Expr string `json:"expr"`
}

// CallWire is passed to the guest's mex_call export.
type CallWire struct {
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	Args    []any  `json:"args"`
	NPos    int    `json:"npos"`
	Outputs int    `json:"nout"`
}

// TupleWire is the guest's answer to a call: Values[0] is the discriminant.
type TupleWire struct {
	Values []any `json:"values"`
}

// StatusWire is the guest's answer to bootstrap and exec. A non-nil Error
// carries the runtime's own error value.
type StatusWire struct {
	Error *ErrorWire `json:"error,omitempty"`
}

// ErrorWire is a runtime error value as the guest reports it.
type ErrorWire struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

func (e *ErrorWire) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

// NewCallWire converts a call request.
func NewCallWire(req entities.CallRequest) CallWire {
	args := req.Arguments
	if args == nil {
		args = []any{}
	}
	return CallWire{
		Kind:    string(req.Kind),
		Target:  req.Target,
		Args:    args,
		NPos:    req.PositionalCount,
		Outputs: req.Outputs,
	}
}

// NewBootstrapWire converts a runtime configuration.
func NewBootstrapWire(cfg entities.RuntimeConfig, hostRoot string) BootstrapWire {
	return BootstrapWire{
		RuntimeHome: cfg.RuntimeHome,
		SysImage:    cfg.SysImage,
		LibPath:     cfg.LibPath,
		HostRoot:    hostRoot,
	}
}

// Encode marshals v, naming typeName in any failure.
func Encode(v any, typeName string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &errors.WireFormatError{Operation: "encode", Type: typeName, Err: err}
	}
	return data, nil
}

// DecodeTuple unmarshals a call answer. Numbers stay json.Number so integer
// results are not widened to float64.
func DecodeTuple(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var t TupleWire
	if err := dec.Decode(&t); err != nil {
		return nil, &errors.WireFormatError{Operation: "decode", Type: "TupleWire", Err: err}
	}
	for i, v := range t.Values {
		t.Values[i] = normalizeNumber(v)
	}
	return t.Values, nil
}

// DecodeStatus unmarshals a bootstrap or exec answer.
func DecodeStatus(data []byte) (StatusWire, error) {
	var s StatusWire
	if err := json.Unmarshal(data, &s); err != nil {
		return StatusWire{}, &errors.WireFormatError{Operation: "decode", Type: "StatusWire", Err: err}
	}
	return s, nil
}

// normalizeNumber turns integral json.Numbers into int64 and the rest into float64.
func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
