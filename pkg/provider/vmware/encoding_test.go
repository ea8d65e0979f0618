package vmware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/early-boot-config/pkg/errors"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    UserDataEncoding
		wantErr bool
	}{
		{in: "base64", want: EncodingBase64},
		{in: "b64", want: EncodingBase64},
		{in: "BASE64", want: EncodingBase64},
		{in: "B64", want: EncodingBase64},
		{in: "gzip+base64", want: EncodingGzipBase64},
		{in: "gz+b64", want: EncodingGzipBase64},
		{in: "GzipBase64", want: EncodingGzipBase64},
		{in: "GZ+B64", want: EncodingGzipBase64},
		{in: "raw", want: EncodingRaw},
		{in: " base64\n", want: EncodingBase64},
		{in: "", want: EncodingRaw},
		{in: "base32", wantErr: true},
		{in: "gzip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				code, ok := errors.CodeOf(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeUnsupportedFormat, code)
				assert.Contains(t, err.Error(), tt.in)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserDataEncoding_String(t *testing.T) {
	assert.Equal(t, "raw", EncodingRaw.String())
	assert.Equal(t, "base64", EncodingBase64.String())
	assert.Equal(t, "gzip+base64", EncodingGzipBase64.String())
	assert.Equal(t, "unknown(9)", UserDataEncoding(9).String())
}
