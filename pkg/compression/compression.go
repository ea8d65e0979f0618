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

package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrDecompress is matched by every error caused by corrupt compressed content.
var ErrDecompress = errors.New("decompression failed")

// Format identifies a compression format by its magic number.
type Format string

const (
	FormatNone Format = "none"
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
	FormatLZ4  Format = "lz4"
)

var magics = []struct {
	format Format
	magic  []byte
}{
	{FormatGzip, []byte{0x1f, 0x8b}},
	{FormatZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{FormatLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
}

// maxMagicLen is the longest magic number in magics.
const maxMagicLen = 4

// Detect reports the compression format of data based on its leading bytes.
func Detect(data []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.format
		}
	}
	return FormatNone
}

// NewOptionalReader returns a reader yielding the decompressed content of r
// when r is compressed, or the content of r unchanged otherwise.
// Closing the returned reader does not close r.
func NewOptionalReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(maxMagicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch format := Detect(head); format {
	case FormatGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, decompressError(format, err)
		}
		return &expandReader{format: format, r: zr, close: zr.Close}, nil
	case FormatZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, decompressError(format, err)
		}
		return &expandReader{format: format, r: zr, close: func() error {
			zr.Close()
			return nil
		}}, nil
	case FormatLZ4:
		return &expandReader{format: format, r: lz4.NewReader(br)}, nil
	default:
		return io.NopCloser(br), nil
	}
}

// ExpandSliceMaybe decompresses data if it is compressed. Uncompressed input
// is returned as-is without copying.
func ExpandSliceMaybe(data []byte) ([]byte, error) {
	if Detect(data) == FormatNone {
		return data, nil
	}

	r, err := NewOptionalReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// ExpandFileMaybe reads the file at path, decompressing it if compressed.
// Filesystem failures are returned unchanged as *fs.PathError.
func ExpandFileMaybe(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewOptionalReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// expandReader tags stream errors from a decompressor with ErrDecompress.
type expandReader struct {
	format Format
	r      io.Reader
	close  func() error
}

func (e *expandReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == nil || errors.Is(err, io.EOF) {
		return n, err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return n, err
	}
	return n, decompressError(e.format, err)
}

func (e *expandReader) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

func decompressError(format Format, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecompress, format, err)
}
