package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted shape of a ledger entry.
type Transaction struct {
	TransactionID string              `db:"transaction_id"`
	Position      int64               `db:"position"` // Insertion order, drives GET /get_data ordering
	TxnDate       *time.Time          `db:"txn_date"` // Nullable
	Description   string              `db:"description"`
	Amount        decimal.NullDecimal `db:"amount"`
	Balance       decimal.NullDecimal `db:"balance"`
	Category      *string             `db:"category"`
	AuditFields
}
