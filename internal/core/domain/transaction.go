package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	maxCategoryLength    = 100
)

// Transaction is one financial ledger entry.
// Amount sign is the only expense/income classifier: negative is an expense.
type Transaction struct {
	TransactionID string              `json:"id"`          // Stable identifier (UUID)
	Date          Date                `json:"date"`        // Zero when missing
	Description   string              `json:"description"` // Free text
	Amount        decimal.NullDecimal `json:"amount"`      // Signed; invalid when missing
	Balance       decimal.NullDecimal `json:"balance"`     // Running balance as supplied, never recomputed
	Category      string              `json:"category"`    // Empty when missing
	AuditFields
}

// HasAmount reports whether the amount is present.
func (t Transaction) HasAmount() bool {
	return t.Amount.Valid
}

// HasCategory reports whether the record carries a non-blank category.
func (t Transaction) HasCategory() bool {
	return strings.TrimSpace(t.Category) != ""
}

// IsExpense reports whether the amount is present and negative.
func (t Transaction) IsExpense() bool {
	return t.Amount.Valid && t.Amount.Decimal.IsNegative()
}

// Validate checks the structural constraints every stored record must satisfy.
func (t Transaction) Validate() error {
	if _, err := uuid.Parse(t.TransactionID); err != nil {
		return fmt.Errorf("transaction ID %q is not a valid UUID", t.TransactionID)
	}
	if len(t.Description) > maxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", maxDescriptionLength)
	}
	if len(t.Category) > maxCategoryLength {
		return fmt.Errorf("category exceeds %d characters", maxCategoryLength)
	}
	if t.Date.IsZero() && strings.TrimSpace(t.Description) == "" && !t.Amount.Valid {
		return fmt.Errorf("transaction has no date, description or amount")
	}
	return nil
}

// RequireComplete checks the fields a manually entered record must carry.
func (t Transaction) RequireComplete() error {
	var missing []string
	if t.Date.IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(t.Description) == "" {
		missing = append(missing, "description")
	}
	if !t.Amount.Valid {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
