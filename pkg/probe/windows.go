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

package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/NVIDIA/hostprobe/pkg/addr"
	"github.com/NVIDIA/hostprobe/pkg/device"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

const (
	kib = 1024

	// lines printed per adapter by the interfaces query
	interfaceGroupLines = 6
)

// windowsPlatform reads the line output of WMI queries.
type windowsPlatform struct {
	src source.Source
	log *slog.Logger
}

func newWindowsPlatform(src source.Source, logger *slog.Logger) *windowsPlatform {
	return &windowsPlatform{src: src, log: logger}
}

func (w *windowsPlatform) OSIdentity(ctx context.Context) (OSIdentity, error) {
	lines, err := w.src.TextTable(ctx, source.OS)
	if err != nil {
		return defaultOSIdentity(), err
	}

	f := fields{log: w.log, id: source.OS}
	return OSIdentity{
		Name:     f.name(line(lines, 0)),
		Hostname: f.name(line(lines, 1)),
		Kernel:   f.name(line(lines, 2)),
		Arch:     bitWidthFromLabel(line(lines, 3)),
	}, nil
}

// UserSessions reports the interactive user of a single-user desktop.
func (w *windowsPlatform) UserSessions(ctx context.Context, now time.Time) ([]UserSession, error) {
	lines, err := w.src.TextTable(ctx, source.Sessions)
	if err != nil || len(lines) == 0 {
		return []UserSession{}, err
	}

	f := fields{log: w.log, id: source.Sessions}
	secs := f.parseFloat("uptime", line(lines, 1))
	if secs < 0 {
		secs = 0
	}
	uptime := time.Duration(secs * float64(time.Second))

	return []UserSession{{
		Name:      f.name(line(lines, 0)),
		LastLogin: now.Add(-uptime).Truncate(time.Second).UTC(),
		Uptime:    uptime,
	}}, nil
}

func (w *windowsPlatform) StoragePartitions(ctx context.Context) ([]StoragePartition, error) {
	lines, err := w.src.TextTable(ctx, source.Partitions)
	if err != nil {
		return []StoragePartition{}, err
	}

	f := fields{log: w.log, id: source.Partitions}
	out := make([]StoragePartition, 0, len(lines))
	for _, l := range lines {
		cols := strings.SplitN(l, "|", 4)
		drive := f.name(line(cols, 0))

		mount := Placeholder
		if drive != Placeholder {
			mount = drive + `\`
		}

		out = append(out, StoragePartition{
			Name:       drive,
			MountPoint: mount,
			Filesystem: f.name(line(cols, 1)),
			Capacity:   f.parseUint("size", line(cols, 2), 64),
			Free:       f.parseUint("free", line(cols, 3), 64),
		})
	}
	return out, nil
}

// PeripheralDevices reports every PnP entity. The class is the bus prefix of
// the PnP device id, e.g. "USB" for "USB\VID_046D&PID_C52B\5&1".
func (w *windowsPlatform) PeripheralDevices(ctx context.Context) ([]PeripheralDevice, error) {
	lines, err := w.src.TextTable(ctx, source.Devices)
	if err != nil {
		return []PeripheralDevice{}, err
	}

	out := make([]PeripheralDevice, 0, len(lines)/2)
	var name string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "NAME:"):
			name = strings.TrimSpace(strings.TrimPrefix(l, "NAME:"))
		case strings.HasPrefix(l, "TYPE:"):
			class := pnpClass(strings.TrimSpace(strings.TrimPrefix(l, "TYPE:")))
			if name != "" {
				out = append(out, PeripheralDevice{Name: name, Class: class})
			}
			name = ""
		}
	}
	return out, nil
}

func pnpClass(id string) string {
	if id == "" {
		return device.ClassGeneric
	}
	if i := strings.IndexByte(id, '\\'); i > 0 && unicode.IsLetter(rune(id[0])) {
		return id[:i]
	}
	return id
}

// NetworkInterfaces reads six lines per IP enabled adapter: description,
// MAC, IPv4, IPv6, dotted IPv4 mask and IPv6 prefix. Absent values arrive as
// empty lines. A trailing incomplete group is dropped.
func (w *windowsPlatform) NetworkInterfaces(ctx context.Context) ([]NetworkInterface, error) {
	lines, err := w.src.TextTable(ctx, source.Interfaces)
	if err != nil {
		return []NetworkInterface{}, err
	}

	f := fields{log: w.log, id: source.Interfaces}
	out := make([]NetworkInterface, 0, len(lines)/interfaceGroupLines)
	for i := 0; i+interfaceGroupLines <= len(lines); i += interfaceGroupLines {
		g := lines[i : i+interfaceGroupLines]
		ni := NetworkInterface{Name: f.name(line(g, 0))}

		if raw := line(g, 1); raw != "" {
			mac, err := addr.ParseMAC(raw)
			if err != nil {
				f.addressFail("MACAddress", raw, err)
			}
			ni.MAC = &mac
		}

		if raw := line(g, 2); raw != "" {
			ip, err := addr.ParseIPv4(raw)
			if err != nil {
				f.addressFail("IPAddress", raw, err)
			}
			ni.IPv4 = &ip

			if mask := line(g, 4); mask != "" {
				p, err := addr.PrefixFromDotted(mask)
				if err != nil {
					f.addressFail("IPSubnet", mask, err)
				}
				ni.IPv4Prefix = p
			}
		}

		if raw := line(g, 3); raw != "" {
			ip, err := addr.ParseIPv6(raw)
			if err != nil {
				f.addressFail("IPAddress", raw, err)
			}
			ni.IPv6 = &ip
			ni.IPv6Prefix = f.prefix("IPSubnet", f.parseUint("IPSubnet", line(g, 5), 8), addr.IPv6Bits)
		}

		out = append(out, ni)
	}

	if rest := len(lines) % interfaceGroupLines; rest != 0 {
		w.log.Debug("dropping incomplete adapter group", slog.Int("lines", rest))
	}
	return out, nil
}

// ProcessorInfo reads name, architecture code, cores, logical processors,
// L2 and L3 cache (KB), processor id (hex) and clock (MHz). WMI does not
// implement L1CacheSize, so L1 stays 0.
func (w *windowsPlatform) ProcessorInfo(ctx context.Context) (ProcessorInfo, error) {
	lines, err := w.src.TextTable(ctx, source.Processor)
	if err != nil {
		return defaultProcessorInfo(), err
	}

	f := fields{log: w.log, id: source.Processor}
	info := defaultProcessorInfo()
	info.Name = f.name(line(lines, 0))
	info.Arch = WindowsArchLabel(line(lines, 1))

	info.Cores = uint32(f.parseUint("NumberOfLogicalProcessors", line(lines, 3), 32))
	if info.Cores == 0 {
		info.Cores = uint32(f.parseUint("NumberOfCores", line(lines, 2), 32))
	}

	info.L2Cache = f.parseUint("L2CacheSize", line(lines, 4), 64) * kib
	info.L3Cache = f.parseUint("L3CacheSize", line(lines, 5), 64) * kib
	info.TotalCache = info.L1Cache + info.L2Cache + info.L3Cache
	info.PhysicalID = f.parseHex("ProcessorId", line(lines, 6))
	info.ClockMHz = f.parseFloat("CurrentClockSpeed", line(lines, 7))

	return info, nil
}

func (w *windowsPlatform) MemorySnapshot(ctx context.Context) (MemorySnapshot, error) {
	return readMemory(ctx, w.src, w.log)
}
