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
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/NVIDIA/hostprobe/pkg/errors"
)

// Tool names used as keys for command overrides.
const (
	ToolLsblk      = "lsblk"
	ToolLshw       = "lshw"
	ToolIP         = "ip"
	ToolLscpu      = "lscpu"
	ToolPowerShell = "powershell"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command as a child process. Output is captured through
// a pipe owned by this call.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("failed to execute %s: %w: %s",
				name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	slog.Debug("command completed", slog.String("command", name), slog.Int("bytes", len(out)))
	return out, nil
}

// Option configures an adapter.
type Option func(*options)

type options struct {
	run      Runner
	commands map[string]string
	procRoot string
}

func newOptions(opts []Option) *options {
	o := &options{
		run:      ExecRunner,
		commands: make(map[string]string),
		procRoot: "/proc",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(o *options) {
		if r != nil {
			o.run = r
		}
	}
}

// WithCommand overrides the binary used for tool, for example
// WithCommand(ToolLshw, "/usr/sbin/lshw").
func WithCommand(tool, binary string) Option {
	return func(o *options) {
		if binary != "" {
			o.commands[tool] = binary
		}
	}
}

// WithCommands applies WithCommand for every entry of m.
func WithCommands(m map[string]string) Option {
	return func(o *options) {
		for tool, binary := range m {
			WithCommand(tool, binary)(o)
		}
	}
}

// WithProcRoot sets the procfs mount point. Default is /proc.
func WithProcRoot(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.procRoot = dir
		}
	}
}

func (o *options) binary(tool string) string {
	if b, ok := o.commands[tool]; ok {
		return b
	}
	return tool
}

func (o *options) exec(ctx context.Context, id ID, tool string, args ...string) ([]byte, error) {
	out, err := o.run(ctx, o.binary(tool), args...)
	if err != nil {
		return nil, Unavailable(id, err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, Unavailable(id, errors.NewWithContext(errors.ErrCodeUnavailable,
			"command returned no output", map[string]any{"command": tool}))
	}
	return out, nil
}
