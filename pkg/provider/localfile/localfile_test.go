package localfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

func writeUserData(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user-data")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestProvider_PlatformData(t *testing.T) {
	path := writeUserData(t, []byte("[settings]\nmotd = \"hello\"\n"))

	frags, err := New(WithPath(path)).PlatformData(context.Background())
	require.NoError(t, err)
	require.Len(t, frags, 1)

	got, err := frags[0].Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"settings": map[string]any{"motd": "hello"}}, got)
	assert.Equal(t, "user data", frags[0].Origin())
}

func TestProvider_Compressed(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(`motd = "hello"`), nil)
	enc.Close()

	frags, err := New(WithPath(writeUserData(t, compressed))).PlatformData(context.Background())
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.JSONEq(t, `{"motd":"hello"}`, string(frags[0].JSON()))
}

func TestProvider_Empty(t *testing.T) {
	frags, err := New(WithPath(writeUserData(t, nil))).PlatformData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, frags)
	assert.NotNil(t, frags)
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.ErrorCode
		is   error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			code: errors.ErrCodeReadFailed,
			is:   os.ErrNotExist,
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
			code: errors.ErrCodeReadFailed,
		},
		{
			name: "invalid toml",
			path: func(t *testing.T) string { return writeUserData(t, []byte("motd = ")) },
			code: errors.ErrCodeMalformedPayload,
			is:   settings.ErrTOMLParse,
		},
		{
			name: "bare value",
			path: func(t *testing.T) string { return writeUserData(t, []byte(`"hello"`)) },
			code: errors.ErrCodeMalformedPayload,
			is:   settings.ErrNotTable,
		},
		{
			name: "invalid utf-8",
			path: func(t *testing.T) string { return writeUserData(t, []byte{0xff, 0xfe, 0xfd}) },
			code: errors.ErrCodeMalformedPayload,
		},
		{
			name: "corrupt gzip",
			path: func(t *testing.T) string {
				return writeUserData(t, bytes.Join([][]byte{{0x1f, 0x8b, 0x08}, []byte("garbage")}, nil))
			},
			code: errors.ErrCodeMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags, err := New(WithPath(tt.path(t))).PlatformData(context.Background())
			require.Error(t, err)
			assert.Nil(t, frags)

			code, ok := errors.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestProvider_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultPath, p.path)
	assert.Equal(t, Name, p.Name())
}
