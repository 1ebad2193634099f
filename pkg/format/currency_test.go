package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIndianRupees(t *testing.T) {
	cases := map[string]string{
		"0":          "₹0",
		"999":        "₹999",
		"1000":       "₹1,000",
		"99999":      "₹99,999",
		"100000":     "₹1,00,000",
		"1234567":    "₹12,34,567",
		"123456789":  "₹12,34,56,789",
		"1234.5":     "₹1,235",
		"-1234567.4": "-₹12,34,567",
	}
	for in, want := range cases {
		assert.Equal(t, want, IndianRupees(decimal.RequireFromString(in)), in)
	}
}
