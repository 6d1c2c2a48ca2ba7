// Package hostfuncs implements the callbacks an embedded runtime can make
// into the host. Callbacks exchange JSON bytes and carry no runtime
// dependencies; the wazero and yaegi endpoints each expose the same Registry
// in their own way.
package hostfuncs
