package format

import (
	"strconv"
	"strings"
)

// FormatNumberString inserts thousand separators into a decimal integer
// string, e.g. "1234567" becomes "1,234,567".
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCount renders an integer count with thousand separators.
func FormatCount(n int) string {
	return FormatNumberString(strconv.Itoa(n))
}

// FormatOpinion renders an opinion value with fixed precision.
func FormatOpinion(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
