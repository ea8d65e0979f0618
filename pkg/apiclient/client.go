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

package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/NVIDIA/early-boot-config/pkg/defaults"
	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

const (
	// settingsPath is the API endpoint for settings changes.
	settingsPath = "/settings"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 64 * 1024

	// baseURL is never resolved; every connection dials the socket.
	baseURL = "http://localhost"
)

// Submitter delivers settings fragments to the host.
type Submitter interface {
	PatchSettings(ctx context.Context, frag settings.SettingsJSON) error
}

// Option configures a Client.
type Option func(*Client)

// WithSocket overrides the API socket path.
func WithSocket(path string) Option {
	return func(c *Client) {
		c.socket = path
	}
}

// WithTransaction overrides the transaction settings are staged in.
func WithTransaction(tx string) Option {
	return func(c *Client) {
		c.tx = tx
	}
}

// WithHTTPClient replaces the HTTP client. The client is used as-is and
// must be able to reach the API.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// Client talks to the host configuration API.
type Client struct {
	socket string
	tx     string
	http   *http.Client
}

// New creates a client for the default API socket.
func New(opts ...Option) *Client {
	c := &Client{
		socket: defaults.APISocketPath,
		tx:     defaults.LaunchTransaction,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newSocketClient(c.socket)
	}
	return c
}

func newSocketClient(socket string) *http.Client {
	dialer := &net.Dialer{Timeout: defaults.APIConnectTimeout}
	return &http.Client{
		Timeout: defaults.APIClientTimeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", socket)
			},
			DisableCompression: true,
		},
	}
}

// PatchSettings stages frag in the client's transaction.
func (c *Client) PatchSettings(ctx context.Context, frag settings.SettingsJSON) error {
	uri := fmt.Sprintf("%s%s?tx=%s", baseURL, settingsPath, url.QueryEscape(c.tx))

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, uri, bytes.NewReader(frag.JSON()))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create settings request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("failed to submit settings to API at %s", c.socket), err,
			map[string]any{"socket": c.socket, "origin": frag.Origin()})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("settings API returned %s: %s", resp.Status, bytes.TrimSpace(body)),
			map[string]any{
				"status": resp.StatusCode,
				"origin": frag.Origin(),
			})
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
