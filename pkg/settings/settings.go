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

package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// SettingsKey is the top-level table that wraps settings in file-based user data.
const SettingsKey = "settings"

var (
	// ErrTOMLParse indicates the input is not valid TOML.
	ErrTOMLParse = errors.New("error parsing TOML user data")
	// ErrNotTable indicates the data is valid TOML but not a table.
	ErrNotTable = errors.New("data is not a TOML table")
	// ErrMissingSettings indicates the TOML data has no 'settings' table.
	ErrMissingSettings = errors.New("TOML data did not contain 'settings' section")
	// ErrJSONEncode indicates the parsed table could not be converted to JSON.
	ErrJSONEncode = errors.New("error serializing TOML to JSON")
)

// SettingsJSON is a settings fragment ready to be sent to the API.
// The zero value is not a valid fragment.
type SettingsJSON struct {
	json   json.RawMessage
	origin string
}

// JSON returns a copy of the fragment's JSON document.
func (s SettingsJSON) JSON() json.RawMessage {
	return bytes.Clone(s.json)
}

// Origin returns the human-readable label of the source the fragment came from.
func (s SettingsJSON) Origin() string {
	return s.origin
}

// Decode unmarshals the fragment's JSON document into v.
func (s SettingsJSON) Decode(v any) error {
	return json.Unmarshal(s.json, v)
}

// Map returns the fragment content as a generic table.
func (s SettingsJSON) Map() (map[string]any, error) {
	var m map[string]any
	if err := s.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

type view struct {
	Origin   string         `json:"origin" yaml:"origin"`
	Settings map[string]any `json:"settings" yaml:"settings"`
}

// MarshalJSON implements json.Marshaler.
func (s SettingsJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Origin   string          `json:"origin"`
		Settings json.RawMessage `json:"settings"`
	}{s.origin, s.json})
}

// MarshalYAML implements yaml.Marshaler.
func (s SettingsJSON) MarshalYAML() (any, error) {
	m, err := s.Map()
	if err != nil {
		return nil, err
	}
	return view{Origin: s.origin, Settings: m}, nil
}

// FromValue builds a fragment from an already-parsed table.
func FromValue(v any, origin string) (SettingsJSON, error) {
	table, ok := v.(map[string]any)
	if !ok {
		return SettingsJSON{}, ErrNotTable
	}

	data, err := json.Marshal(table)
	if err != nil {
		return SettingsJSON{}, fmt.Errorf("%w: %w", ErrJSONEncode, err)
	}

	return SettingsJSON{json: data, origin: origin}, nil
}

// FromTOMLString parses data as a TOML table and uses the whole table as the
// fragment content.
func FromTOMLString(data, origin string) (SettingsJSON, error) {
	table, err := ParseTOMLTable(data)
	if err != nil {
		return SettingsJSON{}, err
	}
	return FromValue(table, origin)
}

// FromTOMLSettingsString parses data as a TOML table and uses the value of its
// top-level 'settings' key as the fragment content.
func FromTOMLSettingsString(data, origin string) (SettingsJSON, error) {
	table, err := ParseTOMLTable(data)
	if err != nil {
		return SettingsJSON{}, err
	}

	inner, ok := table[SettingsKey]
	if !ok {
		return SettingsJSON{}, ErrMissingSettings
	}
	return FromValue(inner, origin)
}

// ParseTOMLTable parses data as a TOML document. Input that is not a document
// but parses as a single TOML value, such as a bare string, is reported as
// ErrNotTable rather than a syntax error.
func ParseTOMLTable(data string) (map[string]any, error) {
	var table map[string]any
	err := toml.Unmarshal([]byte(data), &table)
	if err == nil {
		if table == nil {
			table = map[string]any{}
		}
		return table, nil
	}

	if isBareValue(data) {
		return nil, ErrNotTable
	}
	return nil, fmt.Errorf("%w: %w", ErrTOMLParse, err)
}

func isBareValue(data string) bool {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return false
	}
	var probe map[string]any
	return toml.Unmarshal([]byte("v = "+trimmed), &probe) == nil
}
