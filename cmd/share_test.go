package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"3600", 3600 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := parseExpiry(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseExpiry_Invalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "-1h", "0s", "1w"} {
		_, err := parseExpiry(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
