package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPalette is the chart palette; label i gets DefaultPalette[i % len].
var DefaultPalette = []string{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#C9CBCF",
}

// CategoryBreakdown holds three parallel sequences for chart rendering.
type CategoryBreakdown struct {
	Labels []string          `json:"labels"`
	Totals []decimal.Decimal `json:"totals"`
	Colors []string          `json:"colors"`
}

// Len returns the number of categories.
func (b CategoryBreakdown) Len() int {
	return len(b.Labels)
}

// Sum returns the sum of all category totals.
func (b CategoryBreakdown) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range b.Totals {
		sum = sum.Add(t)
	}
	return sum
}

// AggregateByCategory accumulates |amount| per category in first-seen order.
// Records missing either the category or the amount are skipped. An empty
// palette falls back to DefaultPalette.
func AggregateByCategory(txns []Transaction, palette []string) CategoryBreakdown {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	out := CategoryBreakdown{
		Labels: []string{},
		Totals: []decimal.Decimal{},
		Colors: []string{},
	}

	index := make(map[string]int)
	for _, t := range txns {
		if !t.HasCategory() || !t.HasAmount() {
			continue
		}
		label := strings.TrimSpace(t.Category)
		i, seen := index[label]
		if !seen {
			i = len(out.Labels)
			index[label] = i
			out.Labels = append(out.Labels, label)
			out.Totals = append(out.Totals, decimal.Zero)
			out.Colors = append(out.Colors, palette[i%len(palette)])
		}
		out.Totals[i] = out.Totals[i].Add(t.Amount.Decimal.Abs())
	}
	return out
}
