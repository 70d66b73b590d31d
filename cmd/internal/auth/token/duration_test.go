package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"15 minutes", 15 * time.Minute},
		{"1 week", 7 * 24 * time.Hour},
		{"5 minutes", 5 * time.Minute},
		{"30s", 30 * time.Second},
		{"2.5 hours", 2*time.Hour + 30*time.Minute},
		{"1m", time.Minute},
		{"10 secs", 10 * time.Second},
		{"3 days", 72 * time.Hour},
		{"250ms", 250 * time.Millisecond},
		{"900000", 900 * time.Second}, // bare number is milliseconds
		{"  1 Week  ", 7 * 24 * time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDuration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDuration_Rejections(t *testing.T) {
	for _, in := range []string{
		"",
		"minutes",
		"15 lightyears",
		"-5 minutes",
		"0",
		"0 seconds",
		"1.2.3 hours",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDuration(in)
			require.ErrorIs(t, err, ErrBadDuration)
		})
	}
}
