package domain_test

import (
	"testing"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateByCategory(t *testing.T) {
	txns := []domain.Transaction{
		{Description: "Coffee", Amount: nullDecimal("-5"), Category: "Food"},
		{Description: "Salary", Amount: nullDecimal("3000"), Category: "Income"},
		{Description: "Lunch", Amount: nullDecimal("-12.50"), Category: "Food"},
		{Description: "No category", Amount: nullDecimal("-40")},
		{Description: "No amount", Category: "Transport"},
		{Description: "Bus", Amount: nullDecimal("-2.75"), Category: "Transport"},
	}

	got := domain.AggregateByCategory(txns, nil)

	assert.Equal(t, []string{"Food", "Income", "Transport"}, got.Labels)
	require.Len(t, got.Totals, 3)
	assert.True(t, decimal.RequireFromString("17.50").Equal(got.Totals[0]))
	assert.True(t, decimal.RequireFromString("3000").Equal(got.Totals[1]))
	assert.True(t, decimal.RequireFromString("2.75").Equal(got.Totals[2]))
	assert.Equal(t, domain.DefaultPalette[:3], got.Colors)

	// Sum of totals equals sum of |amount| over records with both fields.
	assert.True(t, decimal.RequireFromString("3020.25").Equal(got.Sum()))
}

func TestAggregateByCategory_PaletteCycles(t *testing.T) {
	palette := []string{"red", "blue"}
	txns := []domain.Transaction{
		{Amount: nullDecimal("1"), Category: "a"},
		{Amount: nullDecimal("1"), Category: "b"},
		{Amount: nullDecimal("1"), Category: "c"},
	}

	got := domain.AggregateByCategory(txns, palette)

	assert.Equal(t, []string{"red", "blue", "red"}, got.Colors)
}

func TestAggregateByCategory_Empty(t *testing.T) {
	for _, input := range [][]domain.Transaction{nil, {}} {
		got := domain.AggregateByCategory(input, nil)
		assert.NotNil(t, got.Labels)
		assert.Empty(t, got.Labels)
		assert.Empty(t, got.Totals)
		assert.Empty(t, got.Colors)
	}
}
