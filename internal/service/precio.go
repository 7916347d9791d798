package service

import "github.com/shopspring/decimal"

// FactorMarkup is the fixed surcharge applied to every ingested cost price.
var FactorMarkup = decimal.RequireFromString("1.30")

// AplicarMarkup returns precio × 1.30 rounded to cents, half away from zero.
// Callers always pass the raw cost price, never a stored final price.
func AplicarMarkup(precio decimal.Decimal) decimal.Decimal {
	return precio.Mul(FactorMarkup).Round(2)
}
