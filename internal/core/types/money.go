// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from an integer amount of major units.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Currency is an ISO 4217 currency code.
type Currency string

// The ledger recognizes exactly these currencies. Amounts in any other
// currency are ignored by the balance aggregation, not rejected.
const (
	EGP Currency = "EGP"
	USD Currency = "USD"
	IDR Currency = "IDR"
)

// RecognizedCurrencies lists the currencies the ledger aggregates, in
// presentation order.
var RecognizedCurrencies = []Currency{EGP, USD, IDR}

// Recognized reports whether the currency belongs to the ledger's set.
func (c Currency) Recognized() bool {
	switch c {
	case EGP, USD, IDR:
		return true
	}
	return false
}

func (c Currency) String() string { return string(c) }
