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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostprobe_snapshot_collection_duration_seconds",
			Help:    "Time taken to collect a complete host snapshot",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	snapshotCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostprobe_snapshot_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"status"}, // success or error
	)

	snapshotResourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostprobe_snapshot_resource_duration_seconds",
			Help:    "Time taken to read each resource of a snapshot",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"resource"},
	)

	snapshotResourceCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostprobe_snapshot_resources",
			Help: "Number of resources in the last collected snapshot",
		},
	)
)
