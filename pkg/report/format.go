// Package report renders analytics reports and transfer traces as text.
package report

import (
	"strconv"
	"strings"
)

// TruncateAddress keeps keep characters at each end of a long address
func TruncateAddress(addr string, keep int) string {
	if keep <= 0 || len(addr) <= 2*keep {
		return addr
	}
	return addr[:keep] + "..." + addr[len(addr)-keep:]
}

// FormatAmount renders v with two decimals and comma thousands separators
func FormatAmount(v float64) string {
	formatted := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign, formatted = "-", formatted[1:]
	}
	integer, decimals, _ := strings.Cut(formatted, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(decimals)
	return b.String()
}

// formatScore renders a centrality score compactly
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
