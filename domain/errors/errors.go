// Package errors provides the bridge's error taxonomy.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/mexbridge/mexbridge/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by errors that can describe themselves as a
// structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// MissingBindingError reports that the native call endpoint is not linked.
// It is fatal: initialization does not retry past it.
type MissingBindingError struct {
	Endpoint string
}

func (e *MissingBindingError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("native call endpoint %s is not available", e.Endpoint)
	}
	return "native call endpoint is not available"
}

// ToErrorDetail implements DetailedError.
func (e *MissingBindingError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "binding", Code: "missing_binding"}
}

// Arity failure reasons.
const (
	ReasonPositionalExceedsTotal = "positional count exceeds total arguments"
	ReasonOddKeywordCount        = "keyword arguments must be even in count"
)

// ArityError reports a positional/keyword argument count mismatch. It is
// raised before anything crosses the endpoint boundary.
type ArityError struct {
	Target     string
	Reason     string
	Positional int
	Total      int
}

func (e *ArityError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("call to %s: %s (npos=%d, nargs=%d)", e.Target, e.Reason, e.Positional, e.Total)
	}
	return fmt.Sprintf("%s (npos=%d, nargs=%d)", e.Reason, e.Positional, e.Total)
}

// ToErrorDetail implements DetailedError.
func (e *ArityError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "arity", Code: e.Target}
}

// OutputCountError reports a negative number of requested results. Like
// ArityError it is raised before the endpoint is reached.
type OutputCountError struct {
	Target  string
	Outputs int
}

func (e *OutputCountError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("call to %s: output count must not be negative (nout=%d)", e.Target, e.Outputs)
	}
	return fmt.Sprintf("output count must not be negative (nout=%d)", e.Outputs)
}

// ToErrorDetail implements DetailedError.
func (e *OutputCountError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "arity", Code: e.Target}
}

// RuntimeCallError carries the embedded runtime's own error value for a
// failed call. Payload is never translated.
type RuntimeCallError struct {
	Payload any
	Target  string
}

func (e *RuntimeCallError) Error() string {
	var msg string
	switch p := e.Payload.(type) {
	case nil:
		msg = "runtime reported failure"
	case error:
		msg = p.Error()
	case string:
		msg = p
	default:
		msg = fmt.Sprintf("%v", p)
	}
	if e.Target != "" {
		return fmt.Sprintf("%s: %s", e.Target, msg)
	}
	return msg
}

// Unwrap exposes the payload when the runtime handed back a Go error.
func (e *RuntimeCallError) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}
	return nil
}

// ToErrorDetail implements DetailedError.
func (e *RuntimeCallError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "runtime", Code: e.Target, Payload: e.Payload}
}

// InitializationError reports a failed bootstrap step. The bridge stays
// uninitialized, so the next call runs the whole sequence again.
type InitializationError struct {
	Err  error
	Step string
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed at %s: %v", e.Step, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *InitializationError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "init", Code: e.Step}
	if e.Err != nil {
		detail.Wrapped = ToErrorDetail(e.Err)
	}
	return detail
}

// ConfigError represents a configuration loading or validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// WireFormatError represents a wire format encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "wire", Code: e.Operation}
}
