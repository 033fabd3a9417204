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

// Package header provides the common header of hostprobe documents.
//
// Every rendered snapshot starts with a Kind, an APIVersion and a flat
// metadata map:
//
//	kind: Snapshot
//	apiVersion: hostprobe.nvidia.com/v1alpha1
//	metadata:
//	  id: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.3.0
//	  hostname: gpu-node-1
//
// Init fills id, timestamp and version; callers add further keys with
// WithMetadata or by writing to Metadata directly.
package header
