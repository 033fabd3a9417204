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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostprobe_operation_duration_seconds",
			Help:    "Time taken by individual probe operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	operationFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostprobe_operation_fallback_total",
			Help: "Total number of probe operations that returned partial or default results",
		},
		[]string{"operation"},
	)

	sourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostprobe_source_fetch_total",
			Help: "Total number of raw source reads",
		},
		[]string{"source", "status"}, // success or error
	)
)
