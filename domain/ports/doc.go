// Package ports defines the interfaces the bridge depends on.
// The native call endpoint, configuration storage and interactive input are
// all reached through these abstractions; infrastructure adapters implement them.
package ports
