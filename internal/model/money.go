package model

import (
	"fmt"
	"strings"
)

// FormatAmount renders a dollar amount with comma-grouped thousands, the
// presentation used in anomaly descriptions, prompts and reports.
func FormatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, grouped.String(), parts[1])
}
