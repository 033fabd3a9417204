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

// Package defaults provides centralized timing constants for hostprobe.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/hostprobe/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CLISnapshotTimeout)
//	defer cancel()
//
// # Guidelines
//
// SamplingWindow must stay well below CLISnapshotTimeout since processor
// sampling blocks for the full window on every call. Raw source reads are not
// bounded by a timeout of their own; only the caller context applies.
package defaults
