//go:build !protolib_debug

package protolib

// assertDebug is a no-op outside protolib_debug builds.
func assertDebug(bool, string) {}
