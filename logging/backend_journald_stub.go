//go:build !linux
// +build !linux

package logging

// The journald backend is linux-only; on other systems it is simply
// not registered.
