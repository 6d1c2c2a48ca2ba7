package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
)

// CallbackFunc is a typed callback. Failures are reported inside Resp.
type CallbackFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler accepts a JSON request and returns a JSON response.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler adapts a typed callback to a ByteHandler. An empty payload
// decodes as the zero request.
func NewJSONHandler[Req any, Resp any](fn CallbackFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("malformed request: %v", err)).ToJSON(), nil
			}
		}

		respBytes, err := json.Marshal(fn(ctx, req))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return respBytes, nil
	}
}
