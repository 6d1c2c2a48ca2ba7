package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingBindingError(t *testing.T) {
	err := &MissingBindingError{Endpoint: "yaegi"}

	assert.Equal(t, "native call endpoint yaegi is not available", err.Error())
	assert.Equal(t, "native call endpoint is not available", (&MissingBindingError{}).Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, "binding", detail.Type)
	assert.Equal(t, "missing_binding", detail.Code)
}

func TestArityError(t *testing.T) {
	err := &ArityError{
		Target:     "f",
		Reason:     ReasonOddKeywordCount,
		Positional: 1,
		Total:      4,
	}

	assert.Equal(t, "call to f: keyword arguments must be even in count (npos=1, nargs=4)", err.Error())

	var arityErr *ArityError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &arityErr))
	assert.Equal(t, ReasonOddKeywordCount, arityErr.Reason)
}

func TestArityError_NoTarget(t *testing.T) {
	err := &ArityError{Reason: ReasonPositionalExceedsTotal, Positional: 3, Total: 2}

	assert.Equal(t, "positional count exceeds total arguments (npos=3, nargs=2)", err.Error())
}

func TestOutputCountError(t *testing.T) {
	err := &OutputCountError{Target: "f", Outputs: -1}

	assert.Equal(t, "call to f: output count must not be negative (nout=-1)", err.Error())
	assert.Equal(t, "output count must not be negative (nout=-2)", (&OutputCountError{Outputs: -2}).Error())

	detail := ToErrorDetail(fmt.Errorf("wrapped: %w", err))
	assert.Equal(t, "arity", detail.Type)
	assert.Equal(t, "f", detail.Code)
}

func TestRuntimeCallError_Payloads(t *testing.T) {
	runtimeErr := fmt.Errorf("UndefVarError: x not defined")

	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"error payload", runtimeErr, "f: UndefVarError: x not defined"},
		{"string payload", "DomainError", "f: DomainError"},
		{"struct payload", struct{ Code int }{7}, "f: {7}"},
		{"nil payload", nil, "f: runtime reported failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &RuntimeCallError{Target: "f", Payload: tt.payload}
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestRuntimeCallError_UnwrapsErrorPayload(t *testing.T) {
	payload := fmt.Errorf("boom")
	err := &RuntimeCallError{Target: "f", Payload: payload}

	assert.True(t, errors.Is(err, payload))
	assert.Nil(t, (&RuntimeCallError{Payload: 42}).Unwrap())

	detail := ToErrorDetail(err)
	assert.Equal(t, "runtime", detail.Type)
	assert.Equal(t, payload, detail.Payload)
}

func TestInitializationError(t *testing.T) {
	cause := &RuntimeCallError{Payload: "ArgumentError: package not found"}
	err := &InitializationError{Step: "load-interop", Err: cause}

	assert.Equal(t, "initialization failed at load-interop: ArgumentError: package not found", err.Error())

	var rce *RuntimeCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "ArgumentError: package not found", rce.Payload)

	detail := err.ToErrorDetail()
	assert.Equal(t, "init", detail.Type)
	require.NotNil(t, detail.Wrapped)
	assert.Equal(t, "runtime", detail.Wrapped.Type)
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("directory does not exist")
	err := &ConfigError{
		Field: "runtime_home",
		Err:   baseErr,
	}

	assert.Equal(t, "config validation failed for field 'runtime_home': directory does not exist", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestConfigError_NoField(t *testing.T) {
	err := &ConfigError{Err: fmt.Errorf("invalid yaml")}

	assert.Equal(t, "config validation failed: invalid yaml", err.Error())
}

func TestWireFormatError(t *testing.T) {
	baseErr := fmt.Errorf("unexpected end of JSON input")
	err := &WireFormatError{
		Operation: "decode",
		Type:      "TupleWire",
		Err:       baseErr,
	}

	assert.Equal(t, "wire format decode failed for TupleWire: unexpected end of JSON input", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestToErrorDetail(t *testing.T) {
	assert.Nil(t, ToErrorDetail(nil))

	generic := ToErrorDetail(fmt.Errorf("plain"))
	assert.Equal(t, "internal", generic.Type)
	assert.Equal(t, "plain", generic.Message)

	wrapped := ToErrorDetail(fmt.Errorf("ctx: %w", &MissingBindingError{}))
	assert.Equal(t, "binding", wrapped.Type)
}
