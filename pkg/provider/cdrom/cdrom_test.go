package cdrom

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/ovf"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

const ovfTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<Environment xmlns="http://schemas.dmtf.org/ovf/environment/1" xmlns:oe="http://schemas.dmtf.org/ovf/environment/1">
  <PropertySection>
    <Property oe:key="foo" oe:value="x"/>
    <Property oe:key="user-data" oe:value="%s"/>
  </PropertySection>
</Environment>
`

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
}

func ovfDoc(payload []byte) []byte {
	return []byte(fmt.Sprintf(ovfTemplate, base64.StdEncoding.EncodeToString(payload)))
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func requireCode(t *testing.T, err error, want errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok, "expected structured error, got %v", err)
	assert.Equal(t, want, code)
}

func decode(t *testing.T, frag settings.SettingsJSON) map[string]any {
	t.Helper()
	m, err := frag.Map()
	require.NoError(t, err)
	return m
}

func TestProvider_PlatformData(t *testing.T) {
	tests := []struct {
		name  string
		files map[string][]byte
		want  []map[string]any
		code  errors.ErrorCode
		is    error
	}{
		{
			name: "no files",
			want: []map[string]any{},
		},
		{
			name:  "plain user data",
			files: map[string][]byte{"user-data": []byte(`settings = { motd = "hello" }`)},
			want:  []map[string]any{{"motd": "hello"}},
		},
		{
			name:  "ovf user data",
			files: map[string][]byte{"ovf-env.xml": ovfDoc([]byte(`settings.motd = "hello"`))},
			want:  []map[string]any{{"motd": "hello"}},
		},
		{
			name:  "upper case ovf name",
			files: map[string][]byte{"OVF_ENV.XML": ovfDoc([]byte(`settings.motd = "hello"`))},
			want:  []map[string]any{{"motd": "hello"}},
		},
		{
			name:  "empty plain file",
			files: map[string][]byte{"user-data": {}},
			want:  []map[string]any{},
		},
		{
			name:  "ovf without user data property",
			files: map[string][]byte{"ovf-env.xml": []byte(`<Environment><PropertySection/></Environment>`)},
			want:  []map[string]any{},
		},
		{
			name: "two files",
			files: map[string][]byte{
				"user-data":   []byte(`settings.motd = "a"`),
				"ovf-env.xml": ovfDoc([]byte(`settings.motd = "b"`)),
			},
			code: errors.ErrCodeAmbiguousSource,
		},
		{
			name:  "missing settings",
			files: map[string][]byte{"user-data": []byte(`motd = "hello"`)},
			code:  errors.ErrCodeMalformedPayload,
			is:    settings.ErrMissingSettings,
		},
		{
			name:  "not a table",
			files: map[string][]byte{"user-data": []byte(`"hello"`)},
			code:  errors.ErrCodeMalformedPayload,
			is:    settings.ErrNotTable,
		},
		{
			name:  "invalid toml",
			files: map[string][]byte{"user-data": []byte(`settings = {`)},
			code:  errors.ErrCodeMalformedPayload,
			is:    settings.ErrTOMLParse,
		},
		{
			name:  "invalid xml",
			files: map[string][]byte{"ovf-env.xml": []byte(`<Environment><PropertySection>`)},
			code:  errors.ErrCodeMalformedPayload,
		},
		{
			name:  "property without value",
			files: map[string][]byte{"ovf-env.xml": []byte(`<Environment><PropertySection><Property key="user-data"/></PropertySection></Environment>`)},
			code:  errors.ErrCodeMalformedPayload,
			is:    ovf.ErrMissingAttr,
		},
		{
			name:  "invalid base64",
			files: map[string][]byte{"ovf-env.xml": []byte(fmt.Sprintf(ovfTemplate, "not base64!"))},
			code:  errors.ErrCodeMalformedPayload,
		},
		{
			name:  "invalid utf-8 payload",
			files: map[string][]byte{"ovf-env.xml": ovfDoc([]byte{0xff, 0xfe})},
			code:  errors.ErrCodeMalformedPayload,
		},
		{
			name:  "compressed plain file is not expanded",
			files: map[string][]byte{"user-data": gzipBytes(t, []byte(`settings.motd = "hello"`))},
			code:  errors.ErrCodeMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, data := range tt.files {
				writeFile(t, dir, name, data)
			}

			frags, err := New(WithMountDir(dir)).PlatformData(context.Background())
			if tt.code != "" {
				requireCode(t, err, tt.code)
				if tt.is != nil {
					assert.ErrorIs(t, err, tt.is)
				}
				assert.Nil(t, frags)
				return
			}
			require.NoError(t, err)

			got := make([]map[string]any, 0, len(frags))
			for _, f := range frags {
				got = append(got, decode(t, f))
				assert.Equal(t, "user data", f.Origin())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_AmbiguousNamesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ovf-env.xml", ovfDoc(nil))
	writeFile(t, dir, "OVF-ENV.XML", ovfDoc(nil))

	_, err := New(WithMountDir(dir)).PlatformData(context.Background())
	requireCode(t, err, errors.ErrCodeAmbiguousSource)
	assert.Contains(t, err.Error(), dir)
}

func TestProvider_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "user-data.json", []byte(`{}`))

	_, err := New(WithMountDir(dir), WithFilenames("user-data.json")).PlatformData(context.Background())
	requireCode(t, err, errors.ErrCodeUnsupportedFormat)
	assert.Contains(t, err.Error(), ".json")
}

func TestProvider_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithMountDir(t.TempDir())).PlatformData(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "cdrom", New().Name())
}

func TestSource_Locate(t *testing.T) {
	dir := t.TempDir()
	src := Source{Dir: dir, Filenames: DefaultFilenames}

	path, err := src.Locate()
	require.NoError(t, err)
	assert.Empty(t, path)

	writeFile(t, dir, "ovf_env.xml", ovfDoc(nil))
	path, err = src.Locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ovf_env.xml"), path)

	writeFile(t, dir, "unrelated.txt", []byte("x"))
	path, err = src.Locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ovf_env.xml"), path)
}

func TestSource_Expand(t *testing.T) {
	const text = `settings.motd = "hello"`

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"compressed plain file", "user-data", gzipBytes(t, []byte(text))},
		{"uncompressed plain file", "user-data", []byte(text)},
		{"compressed ovf payload", "ovf-env.xml", ovfDoc(gzipBytes(t, []byte(text)))},
		{"compressed ovf document", "ovf-env.xml", gzipBytes(t, ovfDoc([]byte(text)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.data)

			src := Source{Dir: dir, Filenames: DefaultFilenames, Expand: true}
			got, path, err := src.UserData(context.Background())
			require.NoError(t, err)
			assert.Equal(t, text, got)
			assert.Equal(t, filepath.Join(dir, tt.file), path)
		})
	}
}

func TestSource_ExpandCorrupt(t *testing.T) {
	dir := t.TempDir()
	compressed := gzipBytes(t, []byte(`settings.motd = "hello"`))
	writeFile(t, dir, "user-data", compressed[:len(compressed)-6])

	src := Source{Dir: dir, Filenames: DefaultFilenames, Expand: true}
	_, _, err := src.UserData(context.Background())
	requireCode(t, err, errors.ErrCodeMalformedPayload)
}

func TestSource_NoExpandForOVFPayload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ovf-env.xml", ovfDoc(gzipBytes(t, []byte(`settings.motd = "hello"`))))

	_, _, err := Default().withDir(dir).UserData(context.Background())
	requireCode(t, err, errors.ErrCodeMalformedPayload)
}

func (s Source) withDir(dir string) Source {
	s.Dir = dir
	return s
}
