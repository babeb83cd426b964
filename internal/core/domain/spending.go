package domain

import "github.com/shopspring/decimal"

// Severity is the color band of the spending gauge.
type Severity string

const (
	SeverityGreen  Severity = "green"
	SeverityOrange Severity = "orange"
	SeverityRed    Severity = "red"
)

const (
	redThreshold    = 90.0
	orangeThreshold = 75.0
)

var hundred = decimal.NewFromInt(100)

// TotalSpent sums the magnitudes of all expense records.
func TotalSpent(txns []Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range txns {
		if t.IsExpense() {
			spent = spent.Add(t.Amount.Decimal.Abs())
		}
	}
	return spent
}

// SpendingPercent returns min(spent/limit*100, 100).
// A zero limit reads as fully spent once anything has been spent.
func SpendingPercent(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return 100
		}
		return 0
	}
	pct := spent.Div(limit).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}

// SeverityFor maps a percentage to its color band.
func SeverityFor(percent float64) Severity {
	switch {
	case percent >= redThreshold:
		return SeverityRed
	case percent >= orangeThreshold:
		return SeverityOrange
	default:
		return SeverityGreen
	}
}
