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

// Package userdata holds helpers shared by the platform data providers.
package userdata

import (
	"log/slog"
	"unicode/utf8"

	"github.com/NVIDIA/early-boot-config/pkg/defaults"
)

// maxTraceLen bounds how much user data is written to the debug log.
// Compressed user data can expand to hundreds of megabytes.
const maxTraceLen = defaults.UserDataTraceLimit

// Trace logs received user data at debug level, truncated to maxTraceLen runes.
func Trace(source, text string) {
	if utf8.RuneCountInString(text) <= maxTraceLen {
		slog.Debug("received user data", "source", source, "data", text)
		return
	}
	slog.Debug("received long user data",
		"source", source,
		"prefix", Truncate(text, maxTraceLen),
		"bytes", len(text),
	)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
