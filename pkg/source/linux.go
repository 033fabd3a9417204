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
	"log/slog"
	"path/filepath"

	"github.com/NVIDIA/hostprobe/pkg/sampler"
	"github.com/NVIDIA/hostprobe/pkg/source/file"
)

const (
	lsblkColumns = "NAME,MOUNTPOINT,FSTYPE,SIZE,FSAVAIL,FSUSED,TYPE"
)

// Linux reads the host through util-linux/iproute2/lshw JSON output, procfs
// and logind.
type Linux struct {
	opts    *options
	lines   *file.Parser
	cpuinfo *file.Parser

	uname    func() (map[string]any, error)
	sessions func(ctx context.Context) ([]string, error)
	meminfo  func(procRoot string) (map[string]any, error)
}

// NewLinux returns the Linux adapter.
func NewLinux(opts ...Option) *Linux {
	return &Linux{
		opts:     newOptions(opts),
		lines:    file.NewParser(file.WithSkipComments(false)),
		cpuinfo:  file.NewParser(file.WithKVDelimiter(":"), file.WithFirstValueWins(true)),
		uname:    uname,
		sessions: logindSessions,
		meminfo:  readMeminfo,
	}
}

// Dialect implements Source.
func (l *Linux) Dialect() Dialect {
	return DialectUnix
}

// TextTable implements Source.
func (l *Linux) TextTable(ctx context.Context, id ID) ([]string, error) {
	if id != Sessions {
		return nil, unsupported(DialectUnix, "text", id)
	}

	lines, err := l.sessions(ctx)
	if err != nil {
		return nil, Unavailable(id, err)
	}
	return lines, nil
}

// StructuredTree implements Source.
func (l *Linux) StructuredTree(ctx context.Context, id ID) (*Node, error) {
	var (
		tool string
		args []string
		spec TreeSpec
	)

	switch id {
	case Partitions:
		tool, spec = ToolLsblk, LsblkTree
		args = []string{"--output", lsblkColumns, "--json", "--bytes"}
	case Devices:
		tool, spec = ToolLshw, LshwTree
		args = []string{"-json", "-quiet"}
	case Interfaces:
		tool, spec = ToolIP, IPAddrTree
		args = []string{"-j", "addr", "show"}
	case Caches:
		tool, spec = ToolLscpu, LscpuTree
		args = []string{"-C", "--json", "--bytes"}
	default:
		return nil, unsupported(DialectUnix, "tree", id)
	}

	out, err := l.opts.exec(ctx, id, tool, args...)
	if err != nil {
		return nil, err
	}

	root, err := DecodeTree(out, spec)
	if err != nil {
		return nil, Unavailable(id, err)
	}
	return root, nil
}

// KeyedFields implements Source.
func (l *Linux) KeyedFields(ctx context.Context, id ID) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(id, err)
	}

	var (
		fields map[string]any
		err    error
	)

	switch id {
	case OS:
		fields, err = l.uname()
	case Processor:
		fields, err = l.readCPUInfo()
	case Memory:
		fields, err = l.meminfo(l.opts.procRoot)
	default:
		return nil, unsupported(DialectUnix, "fields", id)
	}

	if err != nil {
		return nil, Unavailable(id, err)
	}
	return fields, nil
}

func (l *Linux) readCPUInfo() (map[string]any, error) {
	m, err := l.cpuinfo.GetMap(filepath.Join(l.opts.procRoot, "cpuinfo"))
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return fields, nil
}

// CounterSnapshot implements Source.
func (l *Linux) CounterSnapshot(ctx context.Context) ([][]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(Counters, err)
	}

	lines, err := l.lines.GetLines(filepath.Join(l.opts.procRoot, "stat"))
	if err != nil {
		return nil, Unavailable(Counters, err)
	}

	rows, err := sampler.ParseStat(lines)
	if err != nil {
		slog.Debug("unparsable counters replaced by zero", slog.String("error", err.Error()))
	}
	if len(rows) == 0 {
		return nil, Unavailable(Counters, err)
	}

	return toCounterRows(rows), nil
}

func toCounterRows(rows []sampler.Row) [][]uint64 {
	out := make([][]uint64, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
