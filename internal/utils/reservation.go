package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatReservationNumber expands a property's reservation number format.
// Supported placeholders: {YYYY}, {YY}, {MM}, {DD} and {NUM}, the latter
// zero-padded to four digits.
func FormatReservationNumber(format string, at time.Time, seq int32) string {
	r := strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", at.Year()),
		"{YY}", fmt.Sprintf("%02d", at.Year()%100),
		"{MM}", fmt.Sprintf("%02d", int(at.Month())),
		"{DD}", fmt.Sprintf("%02d", at.Day()),
		"{NUM}", fmt.Sprintf("%04d", seq),
	)
	return r.Replace(format)
}
