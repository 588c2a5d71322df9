// Package money implements the application's rounding policy. The engine
// keeps full float64 precision; callers round here, at persistence and
// presentation boundaries only, so multi-year identities stay exact.
package money

import "github.com/shopspring/decimal"

// RoundCents rounds an amount to the cent, half away from zero.
func RoundCents(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// RoundTo rounds an amount to the given number of decimal places.
func RoundTo(amount float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(places).Float64()
	return v
}

// Cents returns the amount as whole cents, useful for exact comparisons.
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
