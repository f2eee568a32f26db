package utils

import (
	"strconv"
	"strings"
	"time"
)

// FormatCurrency renders an amount in rupees with Indian digit grouping and no
// decimals, e.g. 425000 -> "₹ 4,25,000".
func FormatCurrency(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + "₹ " + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹ " + strings.Join(groups, ",") + "," + tail
}

// FormatDate renders a yyyy-mm-dd or RFC 3339 date as "15 Oct 2023". Input that
// does not parse is returned as is.
func FormatDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}
