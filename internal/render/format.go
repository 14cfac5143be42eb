package render

import "github.com/shopspring/decimal"

// FormatQuantity renders a value with at most maxDecimals fractional
// digits. Extra digits are truncated, not rounded, and the result is never
// padded: a value whose natural form is shorter keeps its natural length.
func FormatQuantity(value float64, maxDecimals int) string {
	return decimal.NewFromFloat(value).Truncate(int32(maxDecimals)).String()
}

// FormatReturn renders the percentage gained or lost between a recorded
// trade price and the current price, truncated to two fractional digits.
func FormatReturn(currentPrice, recordedPrice float64) string {
	return FormatQuantity((currentPrice/recordedPrice-1)*100, 2) + "%"
}
