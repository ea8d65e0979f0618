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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

// Provider produces settings fragments from a platform data source.
type Provider interface {
	// Name identifies the provider in logs, metrics and errors.
	Name() string

	// PlatformData returns the fragments found, in discovery order. No data
	// is an empty slice and a nil error.
	PlatformData(ctx context.Context) ([]settings.SettingsJSON, error)
}

// Error is the process-level error for a failed provider. The cause is the
// provider's own error, usually a *errors.StructuredError.
type Error struct {
	Platform string
	Provider string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to get platform data from %s provider %s: %v", e.Platform, e.Provider, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Run collects fragments from the providers of the compiled-in platform.
func Run(ctx context.Context) ([]settings.SettingsJSON, error) {
	return Collect(ctx, Providers())
}

// Collect calls each provider once, in order, and concatenates their
// fragments. The first failure stops collection and is returned as an *Error.
func Collect(ctx context.Context, providers []Provider) ([]settings.SettingsJSON, error) {
	output := make([]settings.SettingsJSON, 0, len(providers))

	for _, p := range providers {
		name := p.Name()
		slog.Debug("running provider", slog.String("platform", Platform), slog.String("provider", name))

		start := time.Now()
		frags, err := p.PlatformData(ctx)
		providerDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			providerErrors.WithLabelValues(name).Inc()
			return nil, &Error{Platform: Platform, Provider: name, Cause: err}
		}

		providerFragments.WithLabelValues(name).Set(float64(len(frags)))
		slog.Debug("provider finished",
			slog.String("provider", name),
			slog.Int("fragments", len(frags)),
			slog.Duration("duration", time.Since(start)))

		output = append(output, frags...)
	}

	return output, nil
}
