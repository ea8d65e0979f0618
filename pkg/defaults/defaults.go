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

package defaults

import "time"

// API client settings for delivering settings to the host.
const (
	// APISocketPath is the unix socket of the host configuration API.
	APISocketPath = "/run/api.sock"

	// LaunchTransaction groups settings submitted at boot so they are
	// committed together.
	LaunchTransaction = "bottlerocket-launch"

	// APIClientTimeout is the total timeout for a single API request.
	APIClientTimeout = 30 * time.Second

	// APIConnectTimeout is the timeout for connecting to the API socket.
	APIConnectTimeout = 5 * time.Second
)

// Provider timeouts for platform data acquisition.
const (
	// ProviderTimeout bounds one full run of the compiled-in providers.
	// Metadata services may be slow while the network comes up.
	ProviderTimeout = 2 * time.Minute
)

// Logging limits.
const (
	// UserDataTraceLimit is the number of characters of received user data
	// written to debug logs.
	UserDataTraceLimit = 2048
)
