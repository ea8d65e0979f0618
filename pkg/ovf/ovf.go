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

package ovf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// UserDataKey is the property key holding base64 encoded user data.
const UserDataKey = "user-data"

// ErrMissingAttr is returned when a Property lacks its key or value attribute.
var ErrMissingAttr = errors.New("property is missing a required attribute")

// Property is a single key/value pair from the PropertySection.
// Both attributes are required; an empty value is allowed.
type Property struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// UnmarshalXML implements xml.Unmarshaler. Attributes match by local name,
// so oe:key and key are equivalent.
func (p *Property) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var hasKey, hasValue bool
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "key":
			p.Key, hasKey = a.Value, true
		case "value":
			p.Value, hasValue = a.Value, true
		}
	}
	if !hasKey {
		return fmt.Errorf("%w: key", ErrMissingAttr)
	}
	if !hasValue {
		return fmt.Errorf("%w: value on property %q", ErrMissingAttr, p.Key)
	}
	return d.Skip()
}

// PropertySection holds the properties in document order.
type PropertySection struct {
	Properties []Property `xml:"Property"`
}

// Environment is the minimal structure of an OVF environment document.
// The root element name is not checked.
type Environment struct {
	PropertySection PropertySection `xml:"PropertySection"`
}

// Decode parses an OVF environment document from r.
func Decode(r io.Reader) (*Environment, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader

	var env Environment
	if err := d.Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Properties returns the property bag in document order.
func (e *Environment) Properties() []Property {
	return e.PropertySection.Properties
}

// Lookup returns the value of the first property with the given key.
// Later properties with the same key are ignored.
func (e *Environment) Lookup(key string) (string, bool) {
	for _, p := range e.PropertySection.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// UserData decodes the document in r and returns the value of its first
// user-data property, or "" if there is none.
func UserData(r io.Reader) (string, error) {
	env, err := Decode(r)
	if err != nil {
		return "", err
	}
	value, _ := env.Lookup(UserDataKey)
	return value, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset: %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
