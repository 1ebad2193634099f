// Package format renders amounts the way the sales organisation reads them.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IndianGrouping rounds amount to whole rupees and groups digits Indian style: the last three
// digits, then pairs (1234567 -> 12,34,567).
func IndianGrouping(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().String()

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	head := len(digits) - 3
	if head <= 0 {
		b.WriteString(digits)
		return b.String()
	}
	lead := head % 2
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < head; i += 2 {
		if b.Len() > 0 && !(b.Len() == 1 && rounded.IsNegative()) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(digits[head:])
	return b.String()
}

// IndianRupees formats amount with the rupee sign and Indian digit grouping, without decimals.
func IndianRupees(amount decimal.Decimal) string {
	grouped := IndianGrouping(amount)
	if strings.HasPrefix(grouped, "-") {
		return "-₹" + grouped[1:]
	}
	return "₹" + grouped
}
