package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds to 2 decimal places, half away from zero. All fare
// amounts pass through here exactly once, after every multiplier has been
// applied.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MoneyFloat converts a rounded decimal amount to the float64 stored on
// models. Amounts are already quantized to 2 dp so the conversion is safe
// for the magnitudes involved.
func MoneyFloat(d decimal.Decimal) float64 {
	f, _ := RoundMoney(d).Float64()
	return f
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
