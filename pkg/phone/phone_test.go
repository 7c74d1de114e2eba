package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		region  string
		want    string
		wantErr bool
	}{
		{name: "international UAE mobile", phone: "+971 50 123 4567", want: "+971501234567"},
		{name: "local UAE mobile", phone: "050-123-4567", want: "+971501234567"},
		{name: "explicit region", phone: "(650) 253-0000", region: "US", want: "+16502530000"},
		{name: "too short", phone: "12345", wantErr: true},
		{name: "empty", phone: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.phone, tt.region)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeOrKeep(t *testing.T) {
	assert.Equal(t, "+971501234567", NormalizeOrKeep("0501234567"))
	assert.Equal(t, "ask reception", NormalizeOrKeep(" ask reception "))
}

func TestValidate(t *testing.T) {
	res, err := Validate("+971501234567", "")
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, "AE", res.CountryCode)
	assert.Equal(t, TypeMobile, res.PhoneType)
	assert.Equal(t, "+971 50 123 4567", res.InternationalFormat)

	_, err = Validate("", "")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	text := "Call Ahmed on +971 50 123 4567 or the office 04 323 4567. Again: +971501234567. Ref 2024."
	assert.Equal(t, []string{"+971501234567", "+97143234567"}, Find(text, ""))
	assert.Empty(t, Find("no numbers here", ""))
}
