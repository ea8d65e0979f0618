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

import (
	"strings"
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"APIClientTimeout", APIClientTimeout, 5 * time.Second, 60 * time.Second},
		{"APIConnectTimeout", APIConnectTimeout, 1 * time.Second, 30 * time.Second},
		{"ProviderTimeout", ProviderTimeout, 30 * time.Second, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s = %v, want >= %v", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, want <= %v", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestTimeoutRelationships(t *testing.T) {
	if APIConnectTimeout >= APIClientTimeout {
		t.Errorf("APIConnectTimeout (%v) should be less than APIClientTimeout (%v)",
			APIConnectTimeout, APIClientTimeout)
	}
}

func TestPathConstants(t *testing.T) {
	if !strings.HasPrefix(APISocketPath, "/") {
		t.Errorf("APISocketPath = %q, want absolute path", APISocketPath)
	}
	if LaunchTransaction == "" {
		t.Error("LaunchTransaction is empty")
	}
	if UserDataTraceLimit <= 0 {
		t.Errorf("UserDataTraceLimit = %d, want > 0", UserDataTraceLimit)
	}
}
