package hostfuncs

import (
	"context"
	"log/slog"
)

// Middleware wraps a ByteHandler.
type Middleware func(next ByteHandler) ByteHandler

// RecoverPanics turns a panicking callback into an ErrorResponse.
func RecoverPanics() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LogCalls records each callback invocation at debug level, and failures
// at warn level.
func LogCalls(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name, _ := CallbackName(ctx)
			logger.DebugContext(ctx, "hostfuncs: invoking callback", "callback", name, "bytes", len(payload))

			resp, err := next(ctx, payload)
			if err != nil {
				logger.WarnContext(ctx, "hostfuncs: callback failed", "callback", name, "error", err)
				return resp, err
			}
			if e, ok := DecodeError(resp); ok {
				logger.WarnContext(ctx, "hostfuncs: callback returned error", "callback", name, "kind", e.Error, "message", e.Message)
			}
			return resp, nil
		}
	}
}
