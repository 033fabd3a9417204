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
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/hostprobe/pkg/addr"
	"github.com/NVIDIA/hostprobe/pkg/cache"
	"github.com/NVIDIA/hostprobe/pkg/device"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

// unixPlatform reads uname fields, logind sessions and the JSON trees of
// lsblk, lshw, ip and lscpu.
type unixPlatform struct {
	src source.Source
	log *slog.Logger

	// uname is shared by OS identity and processor architecture.
	uname *cache.Cell[map[string]any]
}

func newUnixPlatform(src source.Source, logger *slog.Logger) *unixPlatform {
	return &unixPlatform{
		src:   src,
		log:   logger,
		uname: cache.NewCell[map[string]any](cache.Static),
	}
}

func (u *unixPlatform) unameFields(ctx context.Context) (map[string]any, error) {
	return u.uname.Get(ctx, func(ctx context.Context) (map[string]any, error) {
		return u.src.KeyedFields(ctx, source.OS)
	})
}

func (u *unixPlatform) OSIdentity(ctx context.Context) (OSIdentity, error) {
	m, err := u.unameFields(ctx)
	if err != nil {
		return defaultOSIdentity(), err
	}

	f := fields{log: u.log, id: source.OS}
	machine, _ := m["machine"].(string)
	return OSIdentity{
		Name:     f.text(m, "sysname"),
		Hostname: f.text(m, "nodename"),
		Kernel:   f.text(m, "release"),
		Arch:     BitWidth(machine),
	}, nil
}

func (u *unixPlatform) UserSessions(ctx context.Context, now time.Time) ([]UserSession, error) {
	lines, err := u.src.TextTable(ctx, source.Sessions)
	if err != nil {
		return []UserSession{}, err
	}

	f := fields{log: u.log, id: source.Sessions}
	out := make([]UserSession, 0, len(lines))
	for _, l := range lines {
		user, ts, _ := strings.Cut(l, "\t")
		s := UserSession{Name: f.name(user)}
		if secs := f.parseUint("login", ts, 63); secs > 0 {
			s.LastLogin = time.Unix(int64(secs), 0).UTC()
			s.Uptime = sinceLogin(now, s.LastLogin)
		}
		out = append(out, s)
	}
	return out, nil
}

// StoragePartitions reports the children of every block device. Whole disks
// without partitions are not reported.
func (u *unixPlatform) StoragePartitions(ctx context.Context) ([]StoragePartition, error) {
	root, err := u.src.StructuredTree(ctx, source.Partitions)
	if err != nil {
		return []StoragePartition{}, err
	}

	f := fields{log: u.log, id: source.Partitions}
	out := make([]StoragePartition, 0)
	for _, disk := range root.Children {
		for _, part := range disk.Children {
			out = append(out, StoragePartition{
				Name:       f.nodeText(part, "name"),
				MountPoint: f.nodeText(part, "mountpoint"),
				Filesystem: f.nodeText(part, "fstype"),
				Capacity:   f.nodeUint(part, "size"),
				Free:       f.nodeUint(part, "fsavail"),
			})
		}
	}
	return out, nil
}

func (u *unixPlatform) PeripheralDevices(ctx context.Context) ([]PeripheralDevice, error) {
	root, err := u.src.StructuredTree(ctx, source.Devices)
	if err != nil {
		return []PeripheralDevice{}, err
	}

	found := device.Classify(toDeviceNode(root))
	out := make([]PeripheralDevice, 0, len(found))
	for _, d := range found {
		out = append(out, PeripheralDevice{Name: d.Name, Class: d.Class})
	}
	return out, nil
}

func toDeviceNode(n *source.Node) *device.Node {
	if n == nil {
		return nil
	}

	text := func(key string) string {
		s, _ := n.Text(key)
		return strings.TrimSpace(s)
	}

	d := &device.Node{
		Class:       text("class"),
		Vendor:      text("vendor"),
		Product:     text("product"),
		Description: text("description"),
		ID:          text("id"),
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, toDeviceNode(c))
	}
	return d
}

// NetworkInterfaces keeps the first address of each family, which ip lists
// as the primary one.
func (u *unixPlatform) NetworkInterfaces(ctx context.Context) ([]NetworkInterface, error) {
	root, err := u.src.StructuredTree(ctx, source.Interfaces)
	if err != nil {
		return []NetworkInterface{}, err
	}

	f := fields{log: u.log, id: source.Interfaces}
	out := make([]NetworkInterface, 0, len(root.Children))
	for _, n := range root.Children {
		ni := NetworkInterface{Name: f.nodeText(n, "ifname")}

		if raw, ok := n.Text("address"); ok && raw != "" {
			mac, err := addr.ParseMAC(raw)
			if err != nil {
				f.addressFail("address", raw, err)
			}
			ni.MAC = &mac
		}

		for _, a := range n.Children {
			family, _ := a.Text("family")
			local, ok := a.Text("local")
			if !ok || local == "" {
				continue
			}

			switch {
			case family == "inet" && ni.IPv4 == nil:
				ip, err := addr.ParseIPv4(local)
				if err != nil {
					f.addressFail("local", local, err)
				}
				ni.IPv4 = &ip
				ni.IPv4Prefix = f.prefix("prefixlen", f.nodeUint(a, "prefixlen"), addr.IPv4Bits)
			case family == "inet6" && ni.IPv6 == nil:
				ip, err := addr.ParseIPv6(local)
				if err != nil {
					f.addressFail("local", local, err)
				}
				ni.IPv6 = &ip
				ni.IPv6Prefix = f.prefix("prefixlen", f.nodeUint(a, "prefixlen"), addr.IPv6Bits)
			}
		}

		out = append(out, ni)
	}
	return out, nil
}

// ProcessorInfo combines /proc/cpuinfo, the uname machine and lscpu caches.
// Each of them may fail on its own.
func (u *unixPlatform) ProcessorInfo(ctx context.Context) (ProcessorInfo, error) {
	info := defaultProcessorInfo()
	var errs []error

	if m, err := u.src.KeyedFields(ctx, source.Processor); err != nil {
		errs = append(errs, err)
	} else {
		f := fields{log: u.log, id: source.Processor}
		info.Name = f.text(m, "model name")

		cores := "cpu cores"
		if _, ok := m["siblings"]; ok {
			cores = "siblings"
		}
		c, _ := m[cores].(string)
		info.Cores = uint32(f.parseUint(cores, c, 32))

		id, _ := m["physical id"].(string)
		info.PhysicalID = f.parseUint("physical id", id, 64)

		mhz, _ := m["cpu MHz"].(string)
		info.ClockMHz = f.parseFloat("cpu MHz", mhz)
	}

	if m, err := u.unameFields(ctx); err != nil {
		errs = append(errs, err)
	} else if machine, _ := m["machine"].(string); strings.TrimSpace(machine) != "" {
		info.Arch = strings.TrimSpace(machine)
	}

	if root, err := u.src.StructuredTree(ctx, source.Caches); err != nil {
		errs = append(errs, err)
	} else {
		f := fields{log: u.log, id: source.Caches}
		for _, c := range root.Children {
			switch c.Tag {
			case "L1d":
				info.L1Cache = f.nodeUint(c, "all-size")
			case "L2":
				info.L2Cache = f.nodeUint(c, "all-size")
			case "L3":
				info.L3Cache = f.nodeUint(c, "all-size")
			}
		}
	}

	info.TotalCache = info.L1Cache + info.L2Cache + info.L3Cache
	return info, stderrors.Join(errs...)
}

func (u *unixPlatform) MemorySnapshot(ctx context.Context) (MemorySnapshot, error) {
	return readMemory(ctx, u.src, u.log)
}
