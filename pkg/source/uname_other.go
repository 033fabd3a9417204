//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package source

import (
	"github.com/NVIDIA/hostprobe/pkg/errors"
)

func uname() (map[string]any, error) {
	return nil, errors.New(errors.ErrCodeUnavailable, "uname is not supported on this platform")
}
