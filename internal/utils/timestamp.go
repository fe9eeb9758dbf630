package utils

import (
	"math"
	"strconv"
	"time"
)

// WeaveTimestamp returns the current Unix time in Weave protocol format:
// a floating-point number of seconds with two digits after the decimal point.
func WeaveTimestamp() float64 {
	return RoundTimestamp(float64(time.Now().UnixNano()) / float64(time.Second))
}

// RoundTimestamp rounds a Unix timestamp to the two-decimal precision
// required by the Weave protocol.
func RoundTimestamp(ts float64) float64 {
	return math.Round(ts*100) / 100
}

// FormatTimestamp renders a Weave timestamp the way Sync clients expect it
// on the wire: fixed-point notation with exactly two decimals,
// e.g. "1332692961.71".
func FormatTimestamp(ts float64) string {
	return strconv.FormatFloat(ts, 'f', 2, 64)
}

// ParseTimestamp parses a Weave timestamp from its wire representation.
// The boolean result reports whether s was a valid number.
func ParseTimestamp(s string) (float64, bool) {
	ts, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
