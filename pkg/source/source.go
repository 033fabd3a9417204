// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"fmt"

	"github.com/NVIDIA/hostprobe/pkg/errors"
)

// Dialect names the shape of the data an adapter produces.
type Dialect string

const (
	// DialectUnix is produced by the Linux and Portable adapters.
	DialectUnix Dialect = "unix"
	// DialectWindows is produced by the PowerShell adapter.
	DialectWindows Dialect = "windows"
)

// ID identifies a raw source.
type ID string

// Raw sources known to the adapters.
const (
	OS         ID = "os"
	Sessions   ID = "sessions"
	Partitions ID = "partitions"
	Devices    ID = "devices"
	Interfaces ID = "interfaces"
	Processor  ID = "processor"
	Caches     ID = "caches"
	Memory     ID = "memory"
	Counters   ID = "counters"
)

// Source is the raw data collaborator of the probe.
type Source interface {
	// Dialect reports the shape of the data returned by the other methods.
	Dialect() Dialect

	// TextTable returns the lines of a textual source.
	TextTable(ctx context.Context, id ID) ([]string, error)

	// StructuredTree returns the root of a hierarchical source.
	StructuredTree(ctx context.Context, id ID) (*Node, error)

	// KeyedFields returns a flat field mapping.
	KeyedFields(ctx context.Context, id ID) (map[string]any, error)

	// CounterSnapshot returns per-core tick counter rows, aggregate row excluded.
	CounterSnapshot(ctx context.Context) ([][]uint64, error)
}

// ErrUnavailable is wrapped by every error reporting that a raw source
// could not be read.
var ErrUnavailable = errors.New(errors.ErrCodeUnavailable, "source unavailable")

// Unavailable returns an error for id wrapping ErrUnavailable and cause.
func Unavailable(id ID, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", id, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", id, ErrUnavailable, cause)
}

// unsupported reports a request an adapter does not serve.
func unsupported(d Dialect, kind string, id ID) error {
	return Unavailable(id, errors.NewWithContext(errors.ErrCodeNotFound,
		"no such source", map[string]any{"dialect": string(d), "kind": kind}))
}
