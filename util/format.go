package util

import (
	"strconv"
	"strings"
	"time"
)

// FormatFloatWithCommas formats a float with the given number of decimal
// places and comma-grouped thousands, e.g. 1234567.891 -> "1,234,567.89".
func FormatFloatWithCommas(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	integerPart := formatted
	fractionPart := ""
	if i := strings.Index(formatted, "."); i >= 0 {
		integerPart = formatted[:i]
		fractionPart = formatted[i:]
	}

	var builder strings.Builder
	for i, digit := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}

	return sign + builder.String() + fractionPart
}

// MillisFromTime returns the epoch milliseconds for a time, or nil for a
// nil time. Hubspot date properties expect epoch milliseconds.
func MillisFromTime(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	millis := t.UnixNano() / int64(time.Millisecond)
	return &millis
}
