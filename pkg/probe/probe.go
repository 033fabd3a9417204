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
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/hostprobe/pkg/cache"
	"github.com/NVIDIA/hostprobe/pkg/defaults"
	"github.com/NVIDIA/hostprobe/pkg/sampler"
	"github.com/NVIDIA/hostprobe/pkg/source"
)

// Option configures a Probe.
type Option func(*Probe)

// WithSamplingWindow sets the delay between the two counter reads of
// ProcessorInfo. Non-positive values are ignored.
func WithSamplingWindow(d time.Duration) Option {
	return func(p *Probe) {
		if d > 0 {
			p.window = d
		}
	}
}

// WithLogger sets the logger used for fallback reporting.
func WithLogger(l *slog.Logger) Option {
	return func(p *Probe) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock sets the time source used for session uptimes.
func WithClock(now func() time.Time) Option {
	return func(p *Probe) {
		if now != nil {
			p.now = now
		}
	}
}

// Probe is the host snapshot façade. Construct with New or NewDefault.
type Probe struct {
	src      *countingSource
	platform Platform
	sampler  *sampler.Sampler
	log      *slog.Logger
	now      func() time.Time
	window   time.Duration

	osIdentity *cache.Cell[OSIdentity]
	partitions *cache.Cell[[]StoragePartition]
}

// New returns a Probe reading from src.
func New(src source.Source, opts ...Option) *Probe {
	p := &Probe{
		log:        slog.Default(),
		now:        time.Now,
		window:     defaults.SamplingWindow,
		osIdentity: cache.NewCell[OSIdentity](cache.Static),
		partitions: cache.NewCell[[]StoragePartition](cache.QuasiStatic),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.src = newCountingSource(src)
	p.platform = NewPlatform(p.src, p.log)
	p.sampler = sampler.New(p.window)

	p.log.Debug("probe initialized",
		slog.String("dialect", string(src.Dialect())),
		slog.Duration("window", p.window))
	return p
}

// NewDefault returns a Probe over the adapter for the running OS.
func NewDefault(opts ...Option) *Probe {
	return New(source.NewDefault(), opts...)
}

// Stats returns the number of reads that reached each raw source.
func (p *Probe) Stats() map[source.ID]int {
	return p.src.snapshot()
}

// SamplingWindow returns the delay used by ProcessorInfo.
func (p *Probe) SamplingWindow() time.Duration {
	return p.window
}

// observe records the duration of an operation and logs err, if any.
func (p *Probe) observe(op string, start time.Time, err error) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	operationFallbackTotal.WithLabelValues(op).Inc()
	p.log.Warn("probe operation returned partial or default result",
		slog.String("operation", op),
		slog.String("error", err.Error()))
}

// OSIdentity returns the operating system identity. The first result is
// kept for the lifetime of p.
func (p *Probe) OSIdentity(ctx context.Context) OSIdentity {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("os", start, err)
		return defaultOSIdentity()
	}

	var fetched bool
	v, err := p.osIdentity.Get(ctx, func(ctx context.Context) (OSIdentity, error) {
		fetched = true
		return p.platform.OSIdentity(ctx)
	})
	if !fetched {
		// a cached failure was reported when it happened
		err = nil
	}
	p.observe("os", start, err)
	return v
}

// UserSessions returns the logged in users.
func (p *Probe) UserSessions(ctx context.Context) []UserSession {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("sessions", start, err)
		return []UserSession{}
	}

	v, err := p.platform.UserSessions(ctx, p.now())
	p.observe("sessions", start, err)
	if v == nil {
		v = []UserSession{}
	}
	return v
}

// StoragePartitions returns the partitions of all block devices. The first
// successful result is kept for the lifetime of p, even if the storage
// layout changes later.
func (p *Probe) StoragePartitions(ctx context.Context) []StoragePartition {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("partitions", start, err)
		return []StoragePartition{}
	}

	v, err := p.partitions.Get(ctx, p.platform.StoragePartitions)
	p.observe("partitions", start, err)
	if err != nil || v == nil {
		return []StoragePartition{}
	}
	return v
}

// PeripheralDevices returns the peripheral devices in depth-first pre-order.
func (p *Probe) PeripheralDevices(ctx context.Context) []PeripheralDevice {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("devices", start, err)
		return []PeripheralDevice{}
	}

	v, err := p.platform.PeripheralDevices(ctx)
	p.observe("devices", start, err)
	if v == nil {
		v = []PeripheralDevice{}
	}
	return v
}

// NetworkInterfaces returns all network interfaces.
func (p *Probe) NetworkInterfaces(ctx context.Context) []NetworkInterface {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("interfaces", start, err)
		return []NetworkInterface{}
	}

	v, err := p.platform.NetworkInterfaces(ctx)
	p.observe("interfaces", start, err)
	if v == nil {
		v = []NetworkInterface{}
	}
	return v
}

// ProcessorInfo describes the processor and samples per-core utilization.
// It blocks for the sampling window; ctx does not shorten the wait.
func (p *Probe) ProcessorInfo(ctx context.Context) ProcessorInfo {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("processor", start, err)
		return defaultProcessorInfo()
	}

	info, err := p.platform.ProcessorInfo(ctx)

	load, loadErr := p.sampler.Sample(ctx, p.counters)
	if loadErr != nil {
		load = []float64{}
		err = stderrors.Join(err, fmt.Errorf("load: %w", loadErr))
	}
	info.Load = load

	p.observe("processor", start, err)
	return info
}

func (p *Probe) counters(ctx context.Context) ([]sampler.Row, error) {
	raw, err := p.src.CounterSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]sampler.Row, len(raw))
	for i, r := range raw {
		rows[i] = r
	}
	return rows, nil
}

// MemorySnapshot returns total and available physical memory.
func (p *Probe) MemorySnapshot(ctx context.Context) MemorySnapshot {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.observe("memory", start, err)
		return MemorySnapshot{}
	}

	v, err := p.platform.MemorySnapshot(ctx)
	p.observe("memory", start, err)
	return v
}
