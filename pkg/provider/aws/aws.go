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

package aws

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/NVIDIA/early-boot-config/pkg/compression"
	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/provider/internal/userdata"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

const (
	// Name identifies this provider in logs, metrics and errors.
	Name = "aws"

	// defaultMaxAttempts bounds metadata requests, which may race network
	// bring-up early in boot.
	defaultMaxAttempts = 5

	regionOrigin   = "instance identity document"
	userDataOrigin = "user data"
)

// MetadataClient is the subset of the IMDS client used by the provider.
type MetadataClient interface {
	GetUserData(ctx context.Context, params *imds.GetUserDataInput,
		optFns ...func(*imds.Options)) (*imds.GetUserDataOutput, error)
	GetInstanceIdentityDocument(ctx context.Context, params *imds.GetInstanceIdentityDocumentInput,
		optFns ...func(*imds.Options)) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// Option configures a Provider.
type Option func(*Provider)

// WithClient overrides the metadata service client.
func WithClient(client MetadataClient) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// Provider reads platform data from the EC2 instance metadata service.
type Provider struct {
	client MetadataClient
}

// New creates an AWS provider. By default it uses an IMDS client with the
// SDK's endpoint resolution and a bounded standard retryer.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = imds.New(imds.Options{
			Retryer: retry.AddWithMaxAttempts(retry.NewStandard(), defaultMaxAttempts),
		})
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// PlatformData returns the region fragment followed by the user data
// fragment. Either is omitted when the metadata service does not have it.
func (p *Provider) PlatformData(ctx context.Context) ([]settings.SettingsJSON, error) {
	output := make([]settings.SettingsJSON, 0, 2)

	region, err := p.region(ctx)
	if err != nil {
		return nil, err
	}
	if region != nil {
		output = append(output, *region)
	}

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

func (p *Provider) region(ctx context.Context) (*settings.SettingsJSON, error) {
	out, err := p.client.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		if isNotFound(err) {
			slog.Warn("instance identity document not found", "provider", Name)
			return nil, nil
		}
		return nil, unavailable("instance identity document", err)
	}
	if out.Region == "" {
		slog.Warn("instance identity document has no region", "provider", Name)
		return nil, nil
	}

	slog.Info("retrieved instance identity document", "region", out.Region)

	frag, err := settings.FromValue(map[string]any{
		"aws": map[string]any{"region": out.Region},
	}, regionOrigin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build region settings", err)
	}
	return &frag, nil
}

func (p *Provider) userData(ctx context.Context) (*settings.SettingsJSON, error) {
	out, err := p.client.GetUserData(ctx, &imds.GetUserDataInput{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, unavailable("user data", err)
	}
	defer out.Content.Close()

	r, err := compression.NewOptionalReader(out.Content)
	if err != nil {
		return nil, contentError(err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, contentError(err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCodeMalformedPayload, "user data contains invalid utf-8")
	}
	text := string(data)
	userdata.Trace("IMDS", text)

	frag, err := settings.FromTOMLString(text, userDataOrigin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedPayload, "invalid user data", err)
	}
	return &frag, nil
}

// isNotFound reports whether err is an HTTP 404 response from the service.
func isNotFound(err error) bool {
	var respErr *smithyhttp.ResponseError
	if stderrors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}

func contentError(err error) error {
	if stderrors.Is(err, compression.ErrDecompress) {
		return errors.Wrap(errors.ErrCodeMalformedPayload, "failed to decompress user data", err)
	}
	return unavailable("user data", err)
}

func unavailable(item string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeUnavailable,
		fmt.Sprintf("failed to fetch %s from instance metadata service", item), err,
		map[string]any{"item": item})
}
