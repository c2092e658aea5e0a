package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"6123456789", "+916123456789"},
		{"919876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+14155550100", "+14155550100"},
		{"98765 43210", "+919876543210"},
		{"98765-43210", "+919876543210"},
	}
	for _, tc := range tests {
		got, err := NormalizeE164(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizeE164Invalid(t *testing.T) {
	for _, in := range []string{"", "12345", "5876543210", "abcdefghij", "987654321098"} {
		_, err := NormalizeE164(in)
		assert.Error(t, err, in)
	}
}

func TestValidIndianMobile(t *testing.T) {
	assert.True(t, ValidIndianMobile("9876543210"))
	assert.True(t, ValidIndianMobile(" 6123456789 "))
	assert.False(t, ValidIndianMobile("5876543210"))
	assert.False(t, ValidIndianMobile("+919876543210"))
	assert.False(t, ValidIndianMobile("987654321"))
}
