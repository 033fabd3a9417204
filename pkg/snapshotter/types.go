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

package snapshotter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/NVIDIA/hostprobe/pkg/header"
	"github.com/NVIDIA/hostprobe/pkg/probe"
)

// APIVersion is the schema version of snapshot documents.
const APIVersion = "hostprobe.nvidia.com/v1alpha1"

// Snapshotter captures a host snapshot and serializes it.
type Snapshotter interface {
	Measure(ctx context.Context) error
}

// Prober is the part of probe.Probe used by the snapshotter.
type Prober interface {
	OSIdentity(ctx context.Context) probe.OSIdentity
	UserSessions(ctx context.Context) []probe.UserSession
	StoragePartitions(ctx context.Context) []probe.StoragePartition
	PeripheralDevices(ctx context.Context) []probe.PeripheralDevice
	NetworkInterfaces(ctx context.Context) []probe.NetworkInterface
	ProcessorInfo(ctx context.Context) probe.ProcessorInfo
	MemorySnapshot(ctx context.Context) probe.MemorySnapshot
}

var _ Prober = (*probe.Probe)(nil)

// Resource names one resource category of a snapshot.
type Resource string

const (
	ResourceOS         Resource = "os"
	ResourceSessions   Resource = "sessions"
	ResourcePartitions Resource = "partitions"
	ResourceDevices    Resource = "devices"
	ResourceInterfaces Resource = "interfaces"
	ResourceProcessor  Resource = "processor"
	ResourceMemory     Resource = "memory"
)

// Resources returns every resource in document order.
func Resources() []Resource {
	return []Resource{
		ResourceOS, ResourceSessions, ResourcePartitions, ResourceDevices,
		ResourceInterfaces, ResourceProcessor, ResourceMemory,
	}
}

// ResourceNames returns the names of every resource in document order.
func ResourceNames() []string {
	out := make([]string, 0, len(Resources()))
	for _, r := range Resources() {
		out = append(out, string(r))
	}
	return out
}

// ParseResource returns the resource with the given case-insensitive name.
func ParseResource(name string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Resources(), r) {
		return "", fmt.Errorf("unknown resource %q, expected one of %s",
			name, strings.Join(ResourceNames(), ", "))
	}
	return r, nil
}

// ParseResources parses a list of resource names. An empty list selects
// every resource.
func ParseResources(names []string) ([]Resource, error) {
	if len(names) == 0 {
		return Resources(), nil
	}
	out := make([]Resource, 0, len(names))
	for _, n := range names {
		r, err := ParseResource(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Snapshot is the point-in-time state of one host. Resources that were not
// selected are omitted.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	OS         *probe.OSIdentity        `json:"os,omitempty" yaml:"os,omitempty"`
	Sessions   []probe.UserSession      `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	Partitions []probe.StoragePartition `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	Devices    []probe.PeripheralDevice `json:"devices,omitempty" yaml:"devices,omitempty"`
	Interfaces []probe.NetworkInterface `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Processor  *probe.ProcessorInfo     `json:"processor,omitempty" yaml:"processor,omitempty"`
	Memory     *probe.MemorySnapshot    `json:"memory,omitempty" yaml:"memory,omitempty"`
}
