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

// Package serializer renders hostprobe documents as JSON, YAML or a flat
// table, and reads JSON and YAML documents back.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//		return err
//	}
//
// The table format flattens nested values into dotted keys sorted
// alphabetically, e.g. "interfaces.[0].ipv4". Struct fields are keyed by
// their JSON name and values with a text form (addresses, timestamps) are
// printed as such.
//
// Reading:
//
//	snap, err := serializer.FromFile[snapshotter.Snapshot]("snapshot.json")
//
// Unknown output formats fall back to JSON with a warning. Table output
// cannot be read back.
package serializer
