package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize renders a byte count as a compact lower-case unit string for
// scan warnings and prompt size reports.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	remaining := float64(byteCount)
	unitIndex := 0
	for remaining >= 1024 && unitIndex < len(units)-1 {
		remaining /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", byteCount)
	}
	if remaining < 10 {
		formatted := strings.TrimSuffix(fmt.Sprintf("%.1f", remaining), ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", remaining, units[unitIndex])
}
