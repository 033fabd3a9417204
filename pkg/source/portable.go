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
	"log/slog"
	"net/netip"
	"strconv"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/net"
)

// Portable reads the host through gopsutil and answers in the unix dialect.
// It serves platforms without a dedicated adapter. Peripheral devices and
// cache sizes are not available.
type Portable struct {
	counters func(ctx context.Context) ([][]uint64, error)
	memory   func(ctx context.Context) (map[string]any, error)
}

// NewPortable returns the gopsutil adapter.
func NewPortable() *Portable {
	return &Portable{
		counters: cpuTimesCounters,
		memory:   virtualMemory,
	}
}

// Dialect implements Source.
func (p *Portable) Dialect() Dialect {
	return DialectUnix
}

// TextTable implements Source.
func (p *Portable) TextTable(ctx context.Context, id ID) ([]string, error) {
	if id != Sessions {
		return nil, unsupported(DialectUnix, "text", id)
	}

	users, err := host.UsersWithContext(ctx)
	if err != nil {
		return nil, Unavailable(id, err)
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%s\t%d", u.User, u.Started))
	}
	return lines, nil
}

// StructuredTree implements Source.
func (p *Portable) StructuredTree(ctx context.Context, id ID) (*Node, error) {
	switch id {
	case Partitions:
		return p.partitions(ctx)
	case Interfaces:
		return p.interfaces(ctx)
	default:
		return nil, unsupported(DialectUnix, "tree", id)
	}
}

func (p *Portable) partitions(ctx context.Context) (*Node, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, Unavailable(Partitions, err)
	}

	all := NewNode("disk", map[string]any{"name": "all"})
	for _, part := range parts {
		fields := map[string]any{
			"name":       part.Device,
			"mountpoint": part.Mountpoint,
			"fstype":     part.Fstype,
			"size":       nil,
			"fsavail":    nil,
		}

		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			slog.Debug("partition usage unavailable",
				slog.String("mountpoint", part.Mountpoint), slog.String("error", err.Error()))
		} else {
			fields["size"] = usage.Total
			fields["fsavail"] = usage.Free
		}

		all.Children = append(all.Children, NewNode("part", fields))
	}

	return NewNode("", nil, all), nil
}

func (p *Portable) interfaces(ctx context.Context) (*Node, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, Unavailable(Interfaces, err)
	}

	root := NewNode("", nil)
	for _, iface := range ifaces {
		fields := map[string]any{"ifname": iface.Name}
		if iface.HardwareAddr != "" {
			fields["address"] = iface.HardwareAddr
		}
		n := NewNode(iface.Name, fields)

		for _, a := range iface.Addrs {
			prefix, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				slog.Debug("skipping unparsable interface address",
					slog.String("interface", iface.Name), slog.String("addr", a.Addr))
				continue
			}

			family := "inet"
			if prefix.Addr().Is6() && !prefix.Addr().Is4In6() {
				family = "inet6"
			}

			n.Children = append(n.Children, NewNode("", map[string]any{
				"family":    family,
				"local":     prefix.Addr().WithZone("").String(),
				"prefixlen": uint64(prefix.Bits()),
			}))
		}

		root.Children = append(root.Children, n)
	}

	return root, nil
}

// KeyedFields implements Source.
func (p *Portable) KeyedFields(ctx context.Context, id ID) (map[string]any, error) {
	switch id {
	case OS:
		return p.osFields(ctx)
	case Processor:
		return p.processorFields(ctx)
	case Memory:
		return p.memory(ctx)
	default:
		return nil, unsupported(DialectUnix, "fields", id)
	}
}

func (p *Portable) osFields(ctx context.Context) (map[string]any, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, Unavailable(OS, err)
	}

	return map[string]any{
		"sysname":  info.OS,
		"nodename": info.Hostname,
		"release":  info.KernelVersion,
		"machine":  info.KernelArch,
	}, nil
}

func (p *Portable) processorFields(ctx context.Context) (map[string]any, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, Unavailable(Processor, err)
	}
	if len(infos) == 0 {
		return nil, Unavailable(Processor, fmt.Errorf("no processor reported"))
	}

	first := infos[0]
	fields := map[string]any{
		"model name":  first.ModelName,
		"cpu cores":   strconv.Itoa(int(first.Cores)),
		"physical id": first.PhysicalID,
		"cpu MHz":     strconv.FormatFloat(first.Mhz, 'f', 3, 64),
	}

	if logical, err := cpu.CountsWithContext(ctx, true); err == nil && logical > 0 {
		fields["siblings"] = strconv.Itoa(logical)
	}

	return fields, nil
}

// CounterSnapshot implements Source.
func (p *Portable) CounterSnapshot(ctx context.Context) ([][]uint64, error) {
	return p.counters(ctx)
}
