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

// Package localfile implements a platform data provider that reads user data
// from a file on the local filesystem. It is used by development builds
// where images are tested without a platform metadata service.
package localfile

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/NVIDIA/early-boot-config/pkg/compression"
	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/provider/internal/userdata"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

const (
	// Name identifies this provider in logs, metrics and errors.
	Name = "local-file"

	// DefaultPath is the user data file read by default.
	DefaultPath = "/etc/early-boot-config/user-data"
)

// Provider reads user data from a single local file.
type Provider struct {
	path string
}

// Option configures a Provider.
type Option func(*Provider)

// WithPath overrides the user data file path.
func WithPath(path string) Option {
	return func(p *Provider) {
		p.path = path
	}
}

// New creates a local file provider.
func New(opts ...Option) *Provider {
	p := &Provider{path: DefaultPath}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// PlatformData reads the user data file, decompressing it if needed. The
// parsed TOML table is used as the fragment content. A missing file is an
// error; an empty one is not.
func (p *Provider) PlatformData(ctx context.Context) ([]settings.SettingsJSON, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output := make([]settings.SettingsJSON, 0, 1)
	slog.Info("reading user data", "path", p.path)

	data, err := compression.ExpandFileMaybe(p.path)
	if err != nil {
		code := errors.ErrCodeReadFailed
		if stderrors.Is(err, compression.ErrDecompress) {
			code = errors.ErrCodeMalformedPayload
		}
		return nil, errors.WrapWithContext(code,
			fmt.Sprintf("unable to read input file '%s'", p.path), err,
			map[string]any{"path": p.path})
	}

	if len(data) == 0 {
		slog.Warn("no user data found", "provider", Name, "path", p.path)
		return output, nil
	}

	if !utf8.Valid(data) {
		return nil, errors.NewWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("'%s' contains invalid utf-8", p.path),
			map[string]any{"path": p.path})
	}
	text := string(data)
	userdata.Trace(p.path, text)

	frag, err := settings.FromTOMLString(text, "user data")
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			"invalid user data", err, map[string]any{"path": p.path})
	}

	return append(output, frag), nil
}
