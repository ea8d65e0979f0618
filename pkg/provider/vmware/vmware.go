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

package vmware

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/NVIDIA/early-boot-config/pkg/compression"
	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/provider/cdrom"
	"github.com/NVIDIA/early-boot-config/pkg/provider/internal/userdata"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

const (
	// Name identifies this provider in logs, metrics and errors.
	Name = "vmware"

	// GuestInfoUserData is the guestinfo key holding user data.
	GuestInfoUserData = "guestinfo.userdata"

	// GuestInfoUserDataEncoding is the guestinfo key naming the user data encoding.
	GuestInfoUserDataEncoding = "guestinfo.userdata.encoding"
)

// Option configures a Provider.
type Option func(*Provider)

// WithProber overrides how backdoor access is acquired.
func WithProber(prober Prober) Option {
	return func(p *Provider) {
		p.prober = prober
	}
}

// WithMountDir overrides the CD-ROM mount directory.
func WithMountDir(dir string) Option {
	return func(p *Provider) {
		p.cdrom.Dir = dir
	}
}

// WithFilenames overrides the accepted CD-ROM user data file names.
func WithFilenames(names ...string) Option {
	return func(p *Provider) {
		p.cdrom.Filenames = names
	}
}

// Provider reads user data from VMware guestinfo or a mounted CD-ROM.
type Provider struct {
	prober Prober
	cdrom  cdrom.Source
}

// New creates a VMware provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		prober: defaultProber(),
		cdrom: cdrom.Source{
			Dir:       cdrom.DefaultMountDir,
			Filenames: cdrom.DefaultFilenames,
			Expand:    true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// PlatformData returns at most one fragment. Guestinfo is tried first and
// its failures are only logged; the CD-ROM is read when guestinfo yields
// nothing and its failures are returned.
func (p *Provider) PlatformData(ctx context.Context) ([]settings.SettingsJSON, error) {
	output := make([]settings.SettingsJSON, 0, 1)

	frag, err := p.guestInfoUserData(ctx)
	switch {
	case err != nil:
		slog.Error("unable to retrieve user data via guestinfo", "error", err)
	case frag != nil:
		return append(output, *frag), nil
	}

	frag, err = p.cdromUserData(ctx)
	if err != nil {
		return nil, err
	}
	if frag == nil {
		slog.Warn("no user data found", "provider", Name)
		return output, nil
	}

	return append(output, *frag), nil
}

func (p *Provider) cdromUserData(ctx context.Context) (*settings.SettingsJSON, error) {
	text, path, err := p.cdrom.UserData(ctx)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	userdata.Trace(path, text)

	frag, err := settings.FromTOMLString(text, "user data")
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			"invalid user data", err, map[string]any{"path": path})
	}
	return &frag, nil
}

func (p *Provider) guestInfoUserData(ctx context.Context) (*settings.SettingsJSON, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("attempting to retrieve user data via guestinfo")

	backdoor, err := p.prober.ProbePrivileged()
	if err != nil {
		slog.Warn("unable to access backdoor via privileged mode, using unprivileged mode", "error", err)
		backdoor, err = p.prober.Probe()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeChannel,
				"VMware backdoor: failed to probe and acquire access", err)
		}
	}
	defer closeLogged("backdoor", backdoor)

	channel, err := backdoor.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeChannel,
			"VMware backdoor: failed to open RPC channel", err)
	}
	defer closeLogged("RPC channel", channel)

	enc := EncodingRaw
	name, ok, err := guestInfo(channel, GuestInfoUserDataEncoding)
	if err != nil {
		return nil, err
	}
	if ok {
		if enc, err = ParseEncoding(name); err != nil {
			return nil, err
		}
	}

	raw, ok, err := channel.GuestInfo(GuestInfoUserData)
	if err != nil {
		return nil, queryError(GuestInfoUserData, err)
	}
	if !ok {
		slog.Warn("no user data found via guestinfo")
		return nil, nil
	}

	text, err := decodeUserData(raw, enc)
	if err != nil {
		return nil, err
	}
	if text == "" {
		slog.Warn("guestinfo user data is empty")
		return nil, nil
	}
	userdata.Trace(GuestInfoUserData, text)

	frag, err := settings.FromTOMLString(text, "user data")
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			"invalid user data", err, map[string]any{"key": GuestInfoUserData})
	}
	return &frag, nil
}

// guestInfo fetches a key whose value must be UTF-8 text.
func guestInfo(channel Channel, key string) (string, bool, error) {
	value, ok, err := channel.GuestInfo(key)
	if err != nil {
		return "", false, queryError(key, err)
	}
	if !ok {
		return "", false, nil
	}
	if !utf8.Valid(value) {
		return "", false, invalidUTF8(key)
	}
	return string(value), true, nil
}

func decodeUserData(value []byte, enc UserDataEncoding) (string, error) {
	if enc == EncodingRaw {
		if !utf8.Valid(value) {
			return "", invalidUTF8(GuestInfoUserData)
		}
		return string(value), nil
	}

	decoded, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, bytes.NewReader(value)))
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("failed to base64 decode '%s'", GuestInfoUserData), err,
			map[string]any{"key": GuestInfoUserData, "encoding": enc.String()})
	}

	expanded, err := compression.ExpandSliceMaybe(decoded)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("failed to decompress '%s'", GuestInfoUserData), err,
			map[string]any{"key": GuestInfoUserData, "encoding": enc.String()})
	}
	if !utf8.Valid(expanded) {
		return "", invalidUTF8(GuestInfoUserData)
	}
	return string(expanded), nil
}

func queryError(key string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeChannel,
		fmt.Sprintf("VMware backdoor: failed to fetch key '%s' from guestinfo", key), err,
		map[string]any{"key": key})
}

func invalidUTF8(key string) error {
	return errors.NewWithContext(errors.ErrCodeMalformedPayload,
		fmt.Sprintf("'%s' contains invalid utf-8", key),
		map[string]any{"key": key})
}

func closeLogged(what string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close VMware "+what, "error", err)
	}
}
