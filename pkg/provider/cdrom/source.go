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
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/NVIDIA/early-boot-config/pkg/compression"
	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/ovf"
)

const (
	// DefaultMountDir is where the CD-ROM is mounted by a systemd unit.
	DefaultMountDir = "/media/cdrom"
)

// DefaultFilenames lists the accepted user data file names, in lookup order.
var DefaultFilenames = []string{
	"user-data",
	"ovf-env.xml",
	"OVF-ENV.XML",
	"ovf_env.xml",
	"OVF_ENV.XML",
}

// Source locates and decodes the single user data file in a directory.
type Source struct {
	// Dir is the directory searched for user data files.
	Dir string

	// Filenames are the accepted file names inside Dir.
	Filenames []string

	// Expand enables transparent decompression of plain files, OVF documents
	// and the base64 payload inside OVF documents.
	Expand bool
}

// Default returns a Source for the standard mount point and file names.
func Default() Source {
	return Source{
		Dir:       DefaultMountDir,
		Filenames: DefaultFilenames,
	}
}

// Locate returns the path of the one user data file present in Dir, or ""
// if none is present.
func (s Source) Locate() (string, error) {
	var found []string
	for _, name := range s.Filenames {
		path := filepath.Join(s.Dir, name)
		_, err := os.Stat(path)
		if err == nil {
			found = append(found, path)
			continue
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return "", readError(path, err)
		}
	}

	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeAmbiguousSource,
			fmt.Sprintf("found multiple user data files in '%s', expected 1", s.Dir),
			map[string]any{
				"location": s.Dir,
				"files":    found,
			})
	}
}

// UserData returns the decoded user data text and the path it came from.
// Both are empty when no user data file exists.
func (s Source) UserData(ctx context.Context) (text, path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	path, err = s.Locate()
	if err != nil || path == "" {
		return "", "", err
	}

	slog.Info("user data file exists, using it", "path", path)

	switch ext := filepath.Ext(path); ext {
	case ".xml", ".XML":
		text, err = s.ovfUserData(path)
	case "":
		text, err = s.plainUserData(path)
	default:
		err = errors.NewWithContext(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported user data file type '%s'", ext),
			map[string]any{"path": path})
	}
	if err != nil {
		return "", "", err
	}
	return text, path, nil
}

func (s Source) plainUserData(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if s.Expand {
		data, err = compression.ExpandFileMaybe(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if stderrors.Is(err, compression.ErrDecompress) {
			return "", errors.WrapWithContext(errors.ErrCodeMalformedPayload,
				"failed to decompress user data", err, map[string]any{"path": path})
		}
		return "", readError(path, err)
	}

	if !utf8.Valid(data) {
		return "", errors.NewWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("'%s' contains invalid utf-8", path),
			map[string]any{"path": path})
	}
	return string(data), nil
}

// ovfUserData reads the base64 user data out of an OVF environment document.
//
//	<Property key="user-data" value="1234abcd"/>
func (s Source) ovfUserData(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", readError(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.Expand {
		rc, err := compression.NewOptionalReader(f)
		if err != nil {
			return "", xmlError(path, err)
		}
		defer rc.Close()
		r = rc
	}

	encoded, err := ovf.UserData(r)
	if err != nil {
		return "", xmlError(path, err)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("unable to base64 decode string '%s'", encoded), err,
			map[string]any{"path": path})
	}

	if s.Expand {
		decoded, err = compression.ExpandSliceMaybe(decoded)
		if err != nil {
			return "", errors.WrapWithContext(errors.ErrCodeMalformedPayload,
				"failed to decompress OVF user data", err,
				map[string]any{"path": path})
		}
	}

	if !utf8.Valid(decoded) {
		return "", errors.NewWithContext(errors.ErrCodeMalformedPayload,
			fmt.Sprintf("invalid (non-utf8) output from base64 string '%s'", encoded),
			map[string]any{"path": path})
	}
	return string(decoded), nil
}

func readError(path string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeReadFailed,
		fmt.Sprintf("unable to read input file '%s'", path), err,
		map[string]any{"path": path})
}

func xmlError(path string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeMalformedPayload,
		fmt.Sprintf("unable to deserialize XML from '%s'", path), err,
		map[string]any{"path": path})
}
