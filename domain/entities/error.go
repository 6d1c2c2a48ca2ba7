package entities

import "fmt"

// ErrorDetail is the structured, serializable form of a bridge error, as the
// CLI prints it with --format json.
// Types: "binding", "arity", "runtime", "init", "config", "wire", "internal".
type ErrorDetail struct {
	// Wrapped is the cause, when there is one.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Payload is the runtime's own error value for "runtime" errors.
	Payload any `json:"payload,omitempty"`

	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}
