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
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
)

// UserDataEncoding describes how to interpret the guestinfo user data value.
type UserDataEncoding int

const (
	// EncodingRaw is plain UTF-8 text. It is assumed when no encoding is set.
	EncodingRaw UserDataEncoding = iota
	// EncodingBase64 is base64 encoded text.
	EncodingBase64
	// EncodingGzipBase64 is base64 encoded, gzip compressed text.
	EncodingGzipBase64
)

// encodingAliases maps case-folded encoding names to encodings.
var encodingAliases = map[string]UserDataEncoding{
	"raw":         EncodingRaw,
	"base64":      EncodingBase64,
	"b64":         EncodingBase64,
	"gzipbase64":  EncodingGzipBase64,
	"gzip+base64": EncodingGzipBase64,
	"gz+b64":      EncodingGzipBase64,
}

// String returns the canonical name of the encoding.
func (e UserDataEncoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingBase64:
		return "base64"
	case EncodingGzipBase64:
		return "gzip+base64"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// ParseEncoding parses a guestinfo encoding name. Matching is
// case-insensitive and ignores surrounding whitespace; an empty name is raw.
// Any other unrecognized name is an error.
func ParseEncoding(name string) (UserDataEncoding, error) {
	key := cases.Fold().String(strings.TrimSpace(name))
	if key == "" {
		return EncodingRaw, nil
	}

	enc, ok := encodingAliases[key]
	if !ok {
		return 0, errors.NewWithContext(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unknown user data encoding: '%s'", name),
			map[string]any{"encoding": name})
	}
	return enc, nil
}
