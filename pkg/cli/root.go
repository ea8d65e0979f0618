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
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/early-boot-config/pkg/apiclient"
	"github.com/NVIDIA/early-boot-config/pkg/defaults"
	"github.com/NVIDIA/early-boot-config/pkg/logging"
	"github.com/NVIDIA/early-boot-config/pkg/provider"
	"github.com/NVIDIA/early-boot-config/pkg/serializer"
)

const (
	name           = "early-boot-config"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Dry-run output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("Dry-run output format (%v)", serializer.SupportedFormats()),
	}
)

// Execute runs the command with the process arguments and exits non-zero on
// failure. This is called by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(defaultRunner()).Run(ctx, os.Args); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultRunner() *runner {
	return &runner{
		collect:      provider.Run,
		writeMetrics: provider.WriteMetrics,
		notify:       sdNotify,
		newSubmitter: func(socket string) apiclient.Submitter {
			return apiclient.New(apiclient.WithSocket(socket))
		},
	}
}

func newRootCmd(r *runner) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Apply platform user data to host settings at boot",
		Version: fmt.Sprintf("%s (platform: %s, commit: %s, built: %s)", version, provider.Platform, commit, date),
		Description: `Collects user data from the platform this binary was built for and
stages it with the host configuration API in the launch transaction.

Platform data sources, in the order they are read, are fixed at build time.
No user data is not an error.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:    "api-socket",
				Usage:   "Path to the host configuration API socket",
				Value:   defaults.APISocketPath,
				Sources: cli.EnvVars("EARLY_BOOT_CONFIG_API_SOCKET"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print settings fragments instead of submitting them",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write provider metrics to this file in Prometheus text format",
			},
			outputFlag,
			formatFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd.String("log-level"))
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			return r.run(ctx, runConfig{
				apiSocket:   cmd.String("api-socket"),
				dryRun:      cmd.Bool("dry-run"),
				output:      cmd.String("output"),
				format:      outFormat,
				metricsFile: cmd.String("metrics-file"),
			})
		},
	}
}

// initLogger configures slog once flags are parsed. Every record of this
// run carries the same run ID.
func initLogger(level string) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.SetDefault(slog.Default().With(slog.String("run", uuid.NewString())))
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"platform", provider.Platform,
		"logLevel", level)
}

// parseOutputFormat returns the --format value. When --format is not given
// and --output names a file, the format follows the file extension.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	if output := cmd.String("output"); output != "" && !cmd.IsSet("format") {
		return serializer.FormatFromPath(output), nil
	}
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported: %v", format, serializer.SupportedFormats())
	}
	return format, nil
}
