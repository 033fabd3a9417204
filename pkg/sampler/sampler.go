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

// Package sampler turns two time-separated per-core tick counter snapshots
// into utilization fractions.
//
// Each counter row holds cumulative ticks per CPU state in the /proc/stat
// order (user, nice, system, idle, iowait, irq, softirq, steal, ...). For every
// core:
//
//	busy  = sum of all columns except idle and iowait
//	total = sum of all columns
//	util  = (busy2 - busy1) / (total2 - total1)
//
// Results are positional and aligned to the rows of the second sample. When
// no ticks elapsed between the samples the value is Degenerate.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	// IdleColumn is the index of the idle counter within a row.
	IdleColumn = 3
	// IOWaitColumn is the index of the iowait counter within a row.
	IOWaitColumn = 4

	// Degenerate is reported for a core whose total tick count did not
	// advance between samples.
	Degenerate = 0.0

	aggregateRow = "cpu"
)

// Row is one line of cumulative tick counters for a logical core.
type Row []uint64

// Fetch reads the current per-core counter rows.
type Fetch func(ctx context.Context) ([]Row, error)

// Busy returns the sum of all counters except idle and iowait.
func (r Row) Busy() uint64 {
	var n uint64
	for i, v := range r {
		if i == IdleColumn || i == IOWaitColumn {
			continue
		}
		n += v
	}
	return n
}

// Total returns the sum of all counters.
func (r Row) Total() uint64 {
	var n uint64
	for _, v := range r {
		n += v
	}
	return n
}

// Utilization computes per-core utilization between two samples.
// The result has one entry per row of t2. Rows of t2 with no counterpart in
// t1, or whose totals did not advance, yield Degenerate.
func Utilization(t1, t2 []Row) []float64 {
	out := make([]float64, len(t2))
	for i, cur := range t2 {
		if i >= len(t1) {
			slog.Debug("no first sample for core", slog.Int("core", i))
			out[i] = Degenerate
			continue
		}
		out[i] = ratio(i, t1[i], cur)
	}
	return out
}

func ratio(core int, prev, cur Row) float64 {
	busy1, busy2 := prev.Busy(), cur.Busy()
	total1, total2 := prev.Total(), cur.Total()
	if total2 <= total1 {
		slog.Debug("no ticks elapsed for core",
			slog.Int("core", core), slog.Uint64("total", total2))
		return Degenerate
	}
	if busy2 <= busy1 {
		return 0
	}
	u := float64(busy2-busy1) / float64(total2-total1)
	if u > 1 {
		u = 1
	}
	return u
}

// ParseStat extracts per-core rows from /proc/stat style lines.
// The system-wide "cpu" row and non-cpu lines are dropped. Unparsable counters
// are recorded as 0 and reported through the returned error; the rows are
// still usable.
func ParseStat(lines []string) ([]Row, error) {
	rows := make([]Row, 0, len(lines))
	var errs []error
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], aggregateRow) {
			continue
		}
		if fields[0] == aggregateRow {
			continue
		}
		row := make(Row, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s column %d: %w", fields[0], i, err))
				continue
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

// Sampler takes two counter samples separated by a fixed window.
type Sampler struct {
	window time.Duration
	sleep  func(time.Duration)
}

// New returns a Sampler that waits window between its two reads.
func New(window time.Duration) *Sampler {
	return &Sampler{
		window: window,
		sleep:  time.Sleep,
	}
}

// Window returns the configured wait between samples.
func (s *Sampler) Window() time.Duration {
	return s.window
}

// Sample reads the counters, blocks for the window and reads them again.
// The wait is not interrupted by ctx; ctx only reaches fetch.
func (s *Sampler) Sample(ctx context.Context, fetch Fetch) ([]float64, error) {
	first, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("first sample: %w", err)
	}

	s.sleep(s.window)

	second, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("second sample: %w", err)
	}

	return Utilization(first, second), nil
}
