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

package cdrom

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/provider/internal/userdata"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

// Name identifies this provider in logs, metrics and errors.
const Name = "cdrom"

// Option configures a Provider.
type Option func(*Provider)

// WithMountDir overrides the directory searched for user data files.
func WithMountDir(dir string) Option {
	return func(p *Provider) {
		p.source.Dir = dir
	}
}

// WithFilenames overrides the accepted user data file names.
func WithFilenames(names ...string) Option {
	return func(p *Provider) {
		p.source.Filenames = names
	}
}

// Provider reads user data from a mounted CD-ROM.
type Provider struct {
	source Source
}

// New creates a CD-ROM provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{source: Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// PlatformData returns at most one fragment built from the CD-ROM user data.
func (p *Provider) PlatformData(ctx context.Context) ([]settings.SettingsJSON, error) {
	output := make([]settings.SettingsJSON, 0, 1)

	frag, err := p.userData(ctx)
	if err != nil {
		return nil, err
	}
	if frag == nil {
		slog.Warn("no user data found", "provider", Name)
		return output, nil
	}

	return append(output, *frag), nil
}

func (p *Provider) userData(ctx context.Context) (*settings.SettingsJSON, error) {
	text, path, err := p.source.UserData(ctx)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	userdata.Trace(path, text)

	frag, err := settings.FromTOMLSettingsString(text, "user data")
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			"invalid user data", err, map[string]any{"path": path})
	}
	return &frag, nil
}
