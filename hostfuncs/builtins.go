package hostfuncs

import (
	"context"
	"log/slog"
	"strings"
)

// Built-in callback names.
const (
	LogMessage = "log_message"
	HostInfo   = "host_info"
)

// LogMessageRequest asks the host to log on the runtime's behalf.
type LogMessageRequest struct {
	Attrs   map[string]any `json:"attrs,omitempty"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
}

// LogMessageResponse acknowledges a log request.
type LogMessageResponse struct {
	OK bool `json:"ok"`
}

// HostInfoRequest takes no parameters.
type HostInfoRequest struct{}

// HostInfoResponse describes the host to the runtime.
type HostInfoResponse struct {
	HostRoot string `json:"host_root"`
	Version  string `json:"version"`
	Endpoint string `json:"endpoint"`
}

// ParseLevel maps a level name to slog. Unknown names log at info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithBuiltins registers log_message, routed to logger, and host_info,
// answering with info.
func WithBuiltins(logger *slog.Logger, info HostInfoResponse) RegistryOption {
	return func(b *registryBuilder) {
		WithHandler(LogMessage, func(ctx context.Context, req LogMessageRequest) LogMessageResponse {
			attrs := make([]any, 0, len(req.Attrs)*2+2)
			attrs = append(attrs, "source", "runtime")
			for k, v := range req.Attrs {
				attrs = append(attrs, k, v)
			}
			logger.Log(ctx, ParseLevel(req.Level), req.Message, attrs...)
			return LogMessageResponse{OK: true}
		})(b)

		WithHandler(HostInfo, func(_ context.Context, _ HostInfoRequest) HostInfoResponse {
			return info
		})(b)
	}
}
