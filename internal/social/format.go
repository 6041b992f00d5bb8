package social

import (
	"fmt"
	"strconv"
)

// FormatCount abbreviates large counters for the card chrome:
// 999 -> "999", 1000 -> "1.0K", 1500000 -> "1.5M".
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}
