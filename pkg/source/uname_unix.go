//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package source

import (
	"golang.org/x/sys/unix"
)

func uname() (map[string]any, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return nil, err
	}

	return map[string]any{
		"sysname":  unix.ByteSliceToString(u.Sysname[:]),
		"nodename": unix.ByteSliceToString(u.Nodename[:]),
		"release":  unix.ByteSliceToString(u.Release[:]),
		"machine":  unix.ByteSliceToString(u.Machine[:]),
	}, nil
}
