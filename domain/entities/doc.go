// Package entities provides the core domain types of the bridge: call requests
// crossing the endpoint boundary, their decoded results, and the runtime
// configuration needed to bootstrap the embedded runtime.
package entities
