package source

import (
	"runtime"
)

// NewDefault returns the adapter matching the running operating system.
func NewDefault(opts ...Option) Source {
	return ForOS(runtime.GOOS, opts...)
}

// ForOS returns the adapter for goos.
func ForOS(goos string, opts ...Option) Source {
	switch goos {
	case "linux":
		return NewLinux(opts...)
	case "windows":
		return NewPowerShell(opts...)
	default:
		return NewPortable()
	}
}
