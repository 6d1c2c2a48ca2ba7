package hostfuncs

import (
	"encoding/json"
	"fmt"
)

// Callback error kinds.
const (
	KindValidation = "VALIDATION_ERROR"
	KindNotFound   = "NOT_FOUND"
	KindInternal   = "INTERNAL_ERROR"
)

// ErrorResponse is returned to the runtime in place of a callback's normal
// response, so a failing callback never traps the guest.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ToJSON serializes the response.
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError reports a request the callback could not decode.
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{Error: KindValidation, Message: message}
}

// NewNotFoundError reports an unknown callback name.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{Error: KindNotFound, Message: "unknown host callback: " + name}
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{Error: KindInternal, Message: message}
}

// NewPanicError reports a recovered panic.
func NewPanicError(v any) ErrorResponse {
	var msg string
	switch p := v.(type) {
	case error:
		msg = p.Error()
	case string:
		msg = p
	default:
		msg = fmt.Sprintf("%v", p)
	}
	return ErrorResponse{Error: KindInternal, Message: "panic: " + msg}
}

// DecodeError returns the ErrorResponse in resp, if resp is one.
func DecodeError(resp []byte) (ErrorResponse, bool) {
	var e ErrorResponse
	if err := json.Unmarshal(resp, &e); err != nil || e.Error == "" {
		return ErrorResponse{}, false
	}
	return e, true
}
