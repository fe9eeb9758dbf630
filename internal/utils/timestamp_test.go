package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeaveTimestamp(t *testing.T) {
	before := float64(time.Now().Unix())
	ts := WeaveTimestamp()
	after := float64(time.Now().Unix()) + 1

	require.GreaterOrEqual(t, ts, before)
	require.LessOrEqual(t, ts, after)

	// Two-decimal precision: rounding again must be a no-op.
	assert.Equal(t, ts, RoundTimestamp(ts))
}

func TestRoundTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "already rounded", in: 1332692961.71, want: 1332692961.71},
		{name: "rounds down", in: 1332692961.714, want: 1332692961.71},
		{name: "rounds up", in: 1332692961.715, want: 1332692961.72},
		{name: "zero", in: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundTimestamp(tt.in), 1e-9)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "two decimals kept", in: 1332692961.71, want: "1332692961.71"},
		{name: "trailing zero added", in: 1332692961.7, want: "1332692961.70"},
		{name: "integer", in: 1332692961, want: "1332692961.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("1332692961.71")
	require.True(t, ok)
	assert.InDelta(t, 1332692961.71, ts, 1e-9)

	_, ok = ParseTimestamp("not-a-number")
	assert.False(t, ok)
}

func TestFormatParseRoundTrip(t *testing.T) {
	orig := WeaveTimestamp()
	parsed, ok := ParseTimestamp(FormatTimestamp(orig))
	require.True(t, ok)
	assert.Equal(t, orig, parsed)
}
