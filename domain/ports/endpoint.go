package ports

import (
	"context"

	"github.com/mexbridge/mexbridge/domain/entities"
)

// Endpoint is the native call endpoint: the only way into the embedded
// runtime. Implementations marshal values across the boundary; the bridge
// treats them as opaque.
type Endpoint interface {
	// Name identifies the endpoint in errors and logs.
	Name() string

	// Linked reports whether the native binding is present at all.
	Linked() bool

	// Bootstrap performs the low-level startup of the runtime.
	Bootstrap(ctx context.Context, cfg entities.RuntimeConfig) error

	// Exec runs expr for its side effect. A runtime failure is returned as
	// *errors.RuntimeCallError carrying the runtime's payload.
	Exec(ctx context.Context, expr string) error

	// Live is the self-check: whether the runtime is up and callable.
	Live(ctx context.Context) bool

	// Mex performs a mex-style call and returns the raw tuple: a discriminant
	// followed by results. A non-nil error means the call never completed
	// (transport failure), not that the runtime reported one.
	Mex(ctx context.Context, req entities.CallRequest) ([]any, error)
}

// ScriptProvider is implemented by endpoints whose runtime needs bootstrap
// expressions other than entities.DefaultBootstrapScript.
type ScriptProvider interface {
	BootstrapScript() entities.BootstrapScript
}
