package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_IsExpense(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        bool
	}{
		{
			name:        "negative amount is an expense",
			transaction: domain.Transaction{Amount: nullDecimal("-5.00")},
			want:        true,
		},
		{
			name:        "zero amount is not an expense",
			transaction: domain.Transaction{Amount: nullDecimal("0")},
			want:        false,
		},
		{
			name:        "positive amount is income",
			transaction: domain.Transaction{Amount: nullDecimal("1200")},
			want:        false,
		},
		{
			name:        "missing amount is not an expense",
			transaction: domain.Transaction{},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.IsExpense())
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	validID := uuid.NewString()

	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid complete transaction",
			tx: domain.Transaction{
				TransactionID: validID,
				Date:          domain.NewDate(2024, time.January, 1),
				Description:   "Coffee Shop",
				Amount:        nullDecimal("-5"),
				Category:      "Food",
			},
		},
		{
			name: "valid sparse transaction with only a description",
			tx: domain.Transaction{
				TransactionID: validID,
				Description:   "Imported row",
			},
		},
		{
			name:    "invalid ID",
			tx:      domain.Transaction{TransactionID: "txn_123", Description: "x"},
			wantErr: true,
			errMsg:  "not a valid UUID",
		},
		{
			name:    "empty record",
			tx:      domain.Transaction{TransactionID: validID},
			wantErr: true,
			errMsg:  "no date, description or amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_RequireComplete(t *testing.T) {
	err := domain.Transaction{Description: "Rent"}.RequireComplete()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "amount")
	assert.NotContains(t, err.Error(), "description")

	err = domain.Transaction{
		Date:        domain.NewDate(2024, time.January, 15),
		Description: "Rent",
		Amount:      nullDecimal("-1000"),
	}.RequireComplete()
	assert.NoError(t, err)
}

func TestDate_JSON(t *testing.T) {
	var d domain.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-01T00:00:00.000Z"`), &d))
	assert.Equal(t, "2024-02-01", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-01"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	out, err = json.Marshal(domain.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`"01/02/2024"`), &d))
}

func TestDate_Within(t *testing.T) {
	start := domain.NewDate(2024, time.January, 1)
	end := domain.NewDate(2024, time.January, 31)

	assert.True(t, start.Within(start, end))
	assert.True(t, end.Within(start, end))
	assert.True(t, domain.NewDate(2024, time.January, 15).Within(start, end))
	assert.False(t, domain.NewDate(2024, time.February, 1).Within(start, end))
	assert.False(t, domain.Date{}.Within(start, end))
}

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
