// Package bridge is the call bridge between a Go host and an embedded
// interpreter runtime.
//
// A *Bridge is the handle the host holds. It bootstraps the runtime lazily,
// exactly once, on the first call that needs it, and exposes three calling
// conventions over the native call endpoint:
//
//   - RawCall forwards arguments verbatim to a runtime function (mex-style).
//   - CallKeyword splits a flat argument list into positional arguments and
//     alternating key, value pairs; Call is the all-positional form.
//   - Evaluate hands expression strings to the runtime, one result each.
//
// Wrap, WrapKeyword and WrapRaw turn a runtime function name into a Callable
// value the host can pass around and invoke like a local function.
//
// Results are shaped to the number of outputs requested: extra results are
// dropped and missing ones are nil. A failure reported by the runtime comes
// back as *errors.RuntimeCallError with the runtime's own payload untouched.
package bridge
