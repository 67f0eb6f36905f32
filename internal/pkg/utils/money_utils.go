package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders a value with the symbol and separators of the given
// ISO currency code. Values below 1 in magnitude get 4 fraction digits so
// sub-unit token prices stay readable; everything else gets 2.
// NaN and infinities are rendered as zero.
// Example: 1234.5, "USD" => "$1,234.50"; 0.01234, "EUR" => "€0.0123"
func FormatCurrency(value float64, code string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	fraction := 2
	if math.Abs(value) < 1 {
		fraction = 4
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	rounded := decimal.NewFromFloat(value).Round(int32(fraction))

	cur := money.GetCurrency(code)
	if cur == nil {
		return rounded.StringFixed(int32(fraction)) + " " + code
	}
	minor := rounded.Shift(int32(fraction))
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return formatLarge(rounded, fraction, cur)
	}
	f := money.NewFormatter(fraction, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(minor.IntPart())
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// formatLarge renders amounts whose minor units do not fit in an int64 the
// same way money.Formatter does.
func formatLarge(rounded decimal.Decimal, fraction int, cur *money.Currency) string {
	fixed := rounded.Abs().StringFixed(int32(fraction))
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if cur.Thousand != "" {
		for i := len(intPart) - 3; i > 0; i -= 3 {
			intPart = intPart[:i] + cur.Thousand + intPart[i:]
		}
	}
	amount := intPart
	if fracPart != "" {
		amount += cur.Decimal + fracPart
	}
	out := strings.Replace(cur.Template, "1", amount, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return fmt.Sprintf("%.2f%%", value)
}

// FormatSignedCurrency prefixes non-negative values with "+".
func FormatSignedCurrency(value float64, code string) string {
	s := FormatCurrency(value, code)
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
