//go:build !linux

package source

import (
	"github.com/NVIDIA/hostprobe/pkg/errors"
)

func readMeminfo(string) (map[string]any, error) {
	return nil, errors.New(errors.ErrCodeUnavailable, "procfs is only available on linux")
}
