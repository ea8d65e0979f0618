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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/NVIDIA/early-boot-config/pkg/apiclient"
	"github.com/NVIDIA/early-boot-config/pkg/defaults"
	"github.com/NVIDIA/early-boot-config/pkg/serializer"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

type runConfig struct {
	apiSocket   string
	dryRun      bool
	output      string
	format      serializer.Format
	metricsFile string
}

// runner holds the collaborators of a run so tests can replace them.
type runner struct {
	collect      func(ctx context.Context) ([]settings.SettingsJSON, error)
	writeMetrics func(path string) error
	notify       func(state string)
	newSubmitter func(socket string) apiclient.Submitter
}

func (r *runner) run(ctx context.Context, cfg runConfig) error {
	collectCtx, cancel := context.WithTimeout(ctx, defaults.ProviderTimeout)
	frags, err := r.collect(collectCtx)
	cancel()

	if cfg.metricsFile != "" {
		if mErr := r.writeMetrics(cfg.metricsFile); mErr != nil {
			slog.Warn("failed to write metrics", "error", mErr, "path", cfg.metricsFile)
		}
	}

	if err != nil {
		return err
	}

	if len(frags) == 0 {
		slog.Info("no platform data found, nothing to apply")
		r.notify("STATUS=No user data found")
		return nil
	}

	if cfg.dryRun {
		return writeFragments(ctx, cfg, frags)
	}

	submitter := r.newSubmitter(cfg.apiSocket)
	for i, frag := range frags {
		slog.Debug("submitting settings", "index", i, "origin", frag.Origin())
		if err := submitter.PatchSettings(ctx, frag); err != nil {
			slog.Error("failed to submit settings", "socket", cfg.apiSocket, "origin", frag.Origin(), "error", err)
			return fmt.Errorf("failed to submit settings from %s: %w", frag.Origin(), err)
		}
	}

	slog.Info("applied platform settings", "fragments", len(frags))
	r.notify(fmt.Sprintf("STATUS=Applied %d settings fragments", len(frags)))
	return nil
}

func writeFragments(ctx context.Context, cfg runConfig, frags []settings.SettingsJSON) error {
	w, err := serializer.NewFileWriter(cfg.format, cfg.output)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := w.Close(); cErr != nil {
			slog.Warn("failed to close output", "error", cErr)
		}
	}()

	if err := w.Serialize(ctx, frags); err != nil {
		return fmt.Errorf("failed to write settings fragments: %w", err)
	}
	return nil
}

// sdNotify reports state to systemd when running under it.
func sdNotify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("failed to notify systemd", "error", err)
		return
	}
	if !sent {
		slog.Debug("not running under systemd, skipping notification")
	}
}
