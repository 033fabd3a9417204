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

package defaults

import "time"

// Probe timing.
const (
	// SamplingWindow is the delay between the two counter reads used to
	// compute per-core utilization.
	SamplingWindow = 1 * time.Second

	// MinSamplingWindow is the shortest window accepted from configuration.
	// Shorter windows make the tick deltas too coarse to be meaningful.
	MinSamplingWindow = 100 * time.Millisecond

	// MaxSamplingWindow is the longest window accepted from configuration.
	MaxSamplingWindow = 10 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLISnapshotTimeout is the default timeout for snapshot operations.
	CLISnapshotTimeout = 2 * time.Minute
)
