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

package provider

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "early_boot_config_provider_duration_seconds",
			Help:    "Time taken by a provider to return platform data",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"provider"},
	)

	providerFragments = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "early_boot_config_provider_fragments",
			Help: "Number of settings fragments returned by a provider",
		},
		[]string{"provider"},
	)

	providerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "early_boot_config_provider_errors_total",
			Help: "Total number of failed provider runs",
		},
		[]string{"provider"},
	)
)

// WriteMetrics writes the default registry to path in the text exposition
// format, for the node-exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
