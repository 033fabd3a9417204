//go:build linux

package source

import (
	"fmt"

	"github.com/prometheus/procfs"
)

const kib = 1024

func readMeminfo(procRoot string) (map[string]any, error) {
	fs, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs: %w", err)
	}

	mi, err := fs.Meminfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read meminfo: %w", err)
	}

	if mi.MemTotal == nil {
		return nil, fmt.Errorf("meminfo has no MemTotal")
	}

	fields := map[string]any{
		"total": *mi.MemTotal * kib,
	}

	// MemAvailable is missing on kernels older than 3.14.
	switch {
	case mi.MemAvailable != nil:
		fields["available"] = *mi.MemAvailable * kib
	case mi.MemFree != nil:
		fields["available"] = *mi.MemFree * kib
	}

	return fields, nil
}
