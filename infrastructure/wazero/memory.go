package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Guest exports.
const (
	exportAllocate  = "allocate"
	exportBootstrap = "mex_bootstrap"
	exportExec      = "mex_exec"
	exportCall      = "mex_call"
	exportLive      = "mex_live"
	exportInit      = "_initialize"
)

// packPtrLen packs a pointer into the upper and a length into the lower 32 bits.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: packed format stores 32-bit values
	return ptr, length
}

// writeGuest allocates len(data) bytes in the guest and copies data there.
func writeGuest(ctx context.Context, mod api.Module, data []byte) (uint32, error) {
	allocate := mod.ExportedFunction(exportAllocate)
	if allocate == nil {
		return 0, fmt.Errorf("guest does not export %q", exportAllocate)
	}
	res, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("%s returned no results", exportAllocate)
	}

	ptr := uint32(res[0]) //nolint:gosec // G115: wasm32 pointers are 32-bit
	if !mod.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("failed to write %d bytes to guest memory at %d", len(data), ptr)
	}
	return ptr, nil
}

// callJSON passes input to the named export and returns a copy of the JSON
// document it answers with.
func callJSON(ctx context.Context, mod api.Module, export string, input []byte) ([]byte, error) {
	fn := mod.ExportedFunction(export)
	if fn == nil {
		return nil, fmt.Errorf("guest does not export %q", export)
	}

	ptr, err := writeGuest(ctx, mod, input)
	if err != nil {
		return nil, err
	}
	res, err := fn.Call(ctx, uint64(ptr), uint64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", export, err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%s returned no results", export)
	}

	outPtr, outLen := unpackPtrLen(res[0])
	if outPtr == 0 || outLen == 0 {
		return nil, fmt.Errorf("%s returned a null response", export)
	}
	data, ok := mod.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("failed to read %s response from guest memory", export)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
