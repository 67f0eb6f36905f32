package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		code  string
		want  string
	}{
		{"thousands", 1234.5, "USD", "$1,234.50"},
		{"millions", 50000000, "USD", "$50,000,000.00"},
		{"exactly one", 1, "USD", "$1.00"},
		{"sub unit", 0.5, "USD", "$0.5000"},
		{"sub unit rounding", 0.12345, "USD", "$0.1235"},
		{"two digit rounding", 2.345, "USD", "$2.35"},
		{"negative", -1.5, "USD", "-$1.50"},
		{"negative sub unit", -0.25, "USD", "-$0.2500"},
		{"lower case code", 10, "usd", "$10.00"},
		{"zero", 0, "USD", "$0.0000"},
		{"nan", math.NaN(), "USD", "$0.0000"},
		{"infinity", math.Inf(1), "USD", "$0.0000"},
		{"unknown code", 12, "XYZ", "12.00 XYZ"},
		{"beyond int64 minor units", 1e20, "USD", "$100,000,000,000,000,000,000.00"},
		{"negative beyond int64 minor units", -1e18, "USD", "-$1,000,000,000,000,000,000.00"},
		{"largest int64-safe value", 1e16, "USD", "$10,000,000,000,000,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.value, tt.code))
		})
	}
}

func TestFormatCurrency_Symbols(t *testing.T) {
	assert.Contains(t, FormatCurrency(10, "EUR"), "€")
	assert.Contains(t, FormatCurrency(10, "GBP"), "£")
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "10.00%", FormatPercent(10))
	assert.Equal(t, "-3.14%", FormatPercent(-3.14159))
	assert.Equal(t, "0.00%", FormatPercent(math.NaN()))
}

func TestFormatSignedCurrency(t *testing.T) {
	assert.Equal(t, "+$5.00", FormatSignedCurrency(5, "USD"))
	assert.Equal(t, "-$5.00", FormatSignedCurrency(-5, "USD"))
}
