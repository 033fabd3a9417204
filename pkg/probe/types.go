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
	"time"

	"github.com/NVIDIA/hostprobe/pkg/addr"
)

// Placeholder replaces a name that is absent or could not be parsed.
const Placeholder = "null"

// OSIdentity describes the running operating system.
type OSIdentity struct {
	Name     string `json:"name" yaml:"name"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Kernel   string `json:"kernel" yaml:"kernel"`
	// Arch is the architecture bit width, 0 when unknown.
	Arch uint16 `json:"arch" yaml:"arch"`
}

// UserSession is one logged in user.
type UserSession struct {
	Name      string        `json:"name" yaml:"name"`
	LastLogin time.Time     `json:"lastLogin" yaml:"lastLogin"`
	Uptime    time.Duration `json:"uptime" yaml:"uptime"`
}

// StoragePartition is a partition of a block device.
type StoragePartition struct {
	Name       string `json:"name" yaml:"name"`
	MountPoint string `json:"mountPoint" yaml:"mountPoint"`
	Filesystem string `json:"filesystem" yaml:"filesystem"`
	Capacity   uint64 `json:"capacity" yaml:"capacity"`
	Free       uint64 `json:"free" yaml:"free"`
}

// PeripheralDevice is a device of a reported class.
type PeripheralDevice struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class" yaml:"class"`
}

// NetworkInterface is a network interface and its primary addresses.
// A nil address is absent; a prefix is only meaningful when its address is
// present.
type NetworkInterface struct {
	Name       string     `json:"name" yaml:"name"`
	MAC        *addr.MAC  `json:"mac,omitempty" yaml:"mac,omitempty"`
	IPv4       *addr.IPv4 `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv4Prefix uint8      `json:"ipv4Prefix" yaml:"ipv4Prefix"`
	IPv6       *addr.IPv6 `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	IPv6Prefix uint8      `json:"ipv6Prefix" yaml:"ipv6Prefix"`
}

// ProcessorInfo describes the first processor package and the utilization of
// every sampled logical core. Load is positional and aligned to the counter
// rows, so its length may differ from Cores.
type ProcessorInfo struct {
	Name       string    `json:"name" yaml:"name"`
	Arch       string    `json:"arch" yaml:"arch"`
	Cores      uint32    `json:"cores" yaml:"cores"`
	Load       []float64 `json:"load" yaml:"load"`
	L1Cache    uint64    `json:"l1Cache" yaml:"l1Cache"`
	L2Cache    uint64    `json:"l2Cache" yaml:"l2Cache"`
	L3Cache    uint64    `json:"l3Cache" yaml:"l3Cache"`
	TotalCache uint64    `json:"totalCache" yaml:"totalCache"`
	PhysicalID uint64    `json:"physicalId" yaml:"physicalId"`
	ClockMHz   float64   `json:"clockMHz" yaml:"clockMHz"`
}

// MemorySnapshot is the physical memory state in bytes.
type MemorySnapshot struct {
	Capacity uint64 `json:"capacity" yaml:"capacity"`
	Free     uint64 `json:"free" yaml:"free"`
}

func defaultOSIdentity() OSIdentity {
	return OSIdentity{Name: Placeholder, Hostname: Placeholder, Kernel: Placeholder}
}

func defaultProcessorInfo() ProcessorInfo {
	return ProcessorInfo{Name: Placeholder, Arch: UndefinedArch, Load: []float64{}}
}
