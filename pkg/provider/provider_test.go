package provider

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
	"github.com/NVIDIA/early-boot-config/pkg/settings"
)

type fakeProvider struct {
	name  string
	frags []settings.SettingsJSON
	err   error
	calls int
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) PlatformData(context.Context) ([]settings.SettingsJSON, error) {
	f.calls++
	return f.frags, f.err
}

func fragment(t *testing.T, key, value string) settings.SettingsJSON {
	t.Helper()
	frag, err := settings.FromValue(map[string]any{key: value}, "test")
	require.NoError(t, err)
	return frag
}

func TestCollect(t *testing.T) {
	first := &fakeProvider{name: "collect-first", frags: []settings.SettingsJSON{
		fragment(t, "a", "1"),
		fragment(t, "b", "2"),
	}}
	empty := &fakeProvider{name: "collect-empty", frags: []settings.SettingsJSON{}}
	last := &fakeProvider{name: "collect-last", frags: []settings.SettingsJSON{fragment(t, "a", "3")}}

	frags, err := Collect(context.Background(), []Provider{first, empty, last})
	require.NoError(t, err)
	require.Len(t, frags, 3)

	var got []string
	for _, f := range frags {
		got = append(got, string(f.JSON()))
	}
	assert.Equal(t, []string{`{"a":"1"}`, `{"b":"2"}`, `{"a":"3"}`}, got)

	for _, p := range []*fakeProvider{first, empty, last} {
		assert.Equal(t, 1, p.calls, p.name)
	}
	assert.InDelta(t, 2, testutil.ToFloat64(providerFragments.WithLabelValues("collect-first")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(providerFragments.WithLabelValues("collect-empty")), 0)
}

func TestCollect_Empty(t *testing.T) {
	frags, err := Collect(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, frags)
	assert.Empty(t, frags)
}

func TestCollect_Error(t *testing.T) {
	cause := errors.New(errors.ErrCodeAmbiguousSource, "found multiple user data files")
	ok := &fakeProvider{name: "error-ok", frags: []settings.SettingsJSON{fragment(t, "a", "1")}}
	bad := &fakeProvider{name: "error-bad", err: cause}
	after := &fakeProvider{name: "error-after"}

	before := testutil.ToFloat64(providerErrors.WithLabelValues("error-bad"))

	frags, err := Collect(context.Background(), []Provider{ok, bad, after})
	require.Error(t, err)
	assert.Nil(t, frags)
	assert.Equal(t, 0, after.calls)

	var perr *Error
	require.True(t, stderrors.As(err, &perr))
	assert.Equal(t, Platform, perr.Platform)
	assert.Equal(t, "error-bad", perr.Provider)
	assert.ErrorIs(t, err, cause)

	code, found := errors.CodeOf(err)
	require.True(t, found)
	assert.Equal(t, errors.ErrCodeAmbiguousSource, code)

	assert.Contains(t, err.Error(), "error-bad")
	assert.Contains(t, err.Error(), "found multiple user data files")
	assert.InDelta(t, before+1, testutil.ToFloat64(providerErrors.WithLabelValues("error-bad")), 0)
}

func TestWriteMetrics(t *testing.T) {
	_, err := Collect(context.Background(), []Provider{&fakeProvider{name: "metrics"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "early-boot-config.prom")
	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "early_boot_config_provider_duration_seconds"))
	assert.True(t, strings.Contains(text, `provider="metrics"`))
}

func TestWriteMetrics_BadPath(t *testing.T) {
	err := WriteMetrics(filepath.Join(t.TempDir(), "missing", "metrics.prom"))
	require.Error(t, err)
}

func TestProviders(t *testing.T) {
	providers := Providers()
	require.NotEmpty(t, providers)
	for _, p := range providers {
		assert.NotEmpty(t, p.Name())
	}
}
