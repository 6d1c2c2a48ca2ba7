// Package wazero implements the call endpoint over a WebAssembly build of the
// embedded runtime, executed by wazero.
//
// The guest module (lib_path) runs with WASI and runtime_home mounted as its
// root directory. It must export:
//
//	allocate(size i32) i32
//	mex_bootstrap(ptr, len i32) i64   BootstrapWire -> StatusWire
//	mex_exec(ptr, len i32) i64        ExecWire      -> StatusWire
//	mex_call(ptr, len i32) i64        CallWire      -> TupleWire
//	mex_live() i32
//
// Results are JSON documents from package wireformat, returned as a packed
// i64 with the pointer in the upper 32 bits and the length in the lower.
// Host callbacks are importable from the "mexbridge_host" module, each as
// (i64) -> i64 using the same packing.
package wazero
