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

	"github.com/NVIDIA/hostprobe/pkg/source/file"
)

// Absent is printed by the WMI queries in place of a null or empty property,
// so every query emits a fixed number of lines per record. TextTable
// returns it as an empty line.
const Absent = "-"

// psValue prints its argument, or Absent when it is null or empty.
const psValue = "function v($x) { if ($null -eq $x -or \"$x\" -eq '') { '-' } else { \"$x\" } }; "

// WMI queries answering the windows dialect. Every query prints plain lines
// so the adapter never has to parse PowerShell object formatting.
var powerShellScripts = map[ID]string{
	OS: psValue + "$os = Get-CimInstance Win32_OperatingSystem; " +
		"v $os.Caption; v $env:COMPUTERNAME; v $os.Version; v $os.OSArchitecture",

	Sessions: psValue + "v $env:USERNAME; " +
		"$s = Get-CimInstance Win32_LogonSession | Where-Object { $_.LogonType -eq 2 } | " +
		"Sort-Object StartTime | Select-Object -First 1; " +
		"if ($s) { v ((Get-Date) - $s.StartTime).TotalSeconds } else { '-' }",

	Partitions: "Get-CimInstance Win32_LogicalDisk | ForEach-Object { " +
		"'{0}|{1}|{2}|{3}' -f $_.DeviceID, $_.FileSystem, $_.Size, $_.FreeSpace }",

	Devices: "Get-CimInstance Win32_PnPEntity | ForEach-Object { " +
		"'NAME:' + $_.Name; 'TYPE:' + $_.PNPDeviceID }",

	// IPAddress and IPSubnet are parallel arrays holding IPv4 entries with
	// dotted masks and IPv6 entries with prefix lengths.
	Interfaces: psValue + "Get-CimInstance Win32_NetworkAdapterConfiguration | " +
		"Where-Object { $_.IPEnabled } | ForEach-Object { " +
		"$v4 = @($_.IPAddress | Where-Object { $_ -notmatch ':' }); " +
		"$v6 = @($_.IPAddress | Where-Object { $_ -match ':' }); " +
		"$m4 = @($_.IPSubnet | Where-Object { $_ -match '\\.' }); " +
		"$p6 = @($_.IPSubnet | Where-Object { $_ -notmatch '\\.' }); " +
		"v $_.Description; v $_.MACAddress; v $v4[0]; v $v6[0]; v $m4[0]; v $p6[0] }",

	Processor: psValue + "$p = Get-CimInstance Win32_Processor | Select-Object -First 1; " +
		"v $p.Name; v $p.Architecture; v $p.NumberOfCores; v $p.NumberOfLogicalProcessors; " +
		"v $p.L2CacheSize; v $p.L3CacheSize; v $p.ProcessorId; v $p.CurrentClockSpeed",
}

// PowerShell reads a Windows host through WMI queries run by powershell.
// Memory and CPU counters come from gopsutil, which wraps
// GlobalMemoryStatusEx and the processor performance counters.
type PowerShell struct {
	opts  *options
	lines *file.Parser

	counters func(ctx context.Context) ([][]uint64, error)
	memory   func(ctx context.Context) (map[string]any, error)
}

// NewPowerShell returns the Windows adapter.
func NewPowerShell(opts ...Option) *PowerShell {
	return &PowerShell{
		opts:     newOptions(opts),
		lines:    file.NewParser(file.WithSkipComments(false)),
		counters: cpuTimesCounters,
		memory:   virtualMemory,
	}
}

// Dialect implements Source.
func (p *PowerShell) Dialect() Dialect {
	return DialectWindows
}

// TextTable implements Source.
func (p *PowerShell) TextTable(ctx context.Context, id ID) ([]string, error) {
	script, ok := powerShellScripts[id]
	if !ok {
		return nil, unsupported(DialectWindows, "text", id)
	}

	out, err := p.opts.exec(ctx, id, ToolPowerShell, "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return nil, err
	}

	lines, err := p.lines.ParseLines(out, string(id))
	if err != nil {
		return nil, Unavailable(id, err)
	}

	for i, l := range lines {
		if l == Absent {
			lines[i] = ""
		}
	}
	return lines, nil
}

// StructuredTree implements Source.
func (p *PowerShell) StructuredTree(_ context.Context, id ID) (*Node, error) {
	return nil, unsupported(DialectWindows, "tree", id)
}

// KeyedFields implements Source.
func (p *PowerShell) KeyedFields(ctx context.Context, id ID) (map[string]any, error) {
	if id != Memory {
		return nil, unsupported(DialectWindows, "fields", id)
	}
	return p.memory(ctx)
}

// CounterSnapshot implements Source.
func (p *PowerShell) CounterSnapshot(ctx context.Context) ([][]uint64, error) {
	return p.counters(ctx)
}
