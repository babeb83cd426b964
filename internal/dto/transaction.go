package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to add a single transaction.
type CreateTransactionRequest struct {
	ID          string           `json:"id" binding:"omitempty,uuid"`     // Optional client-generated ID
	Date        string           `json:"date" binding:"required,isodate"` // ISO date or timestamp
	Description string           `json:"description" binding:"required,max=500"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`  // Signed; negative is an expense
	Balance     *decimal.Decimal `json:"balance"`                    // Optional
	Category    string           `json:"category" binding:"max=100"` // Optional
}

// TransactionResponse defines the data returned for a transaction.
// The same shape is accepted back as chat context.
type TransactionResponse struct {
	ID          string              `json:"id"`
	Date        domain.Date         `json:"date" swaggertype:"string" example:"2024-01-01"`
	Description string              `json:"description"`
	Amount      decimal.NullDecimal `json:"amount" swaggertype:"string" example:"-5.00"`
	Balance     decimal.NullDecimal `json:"balance" swaggertype:"string" example:"1200.00"`
	Category    string              `json:"category,omitempty"`
	CreatedAt   time.Time           `json:"createdAt,omitempty"`
}

// StatusResponse is returned by mutations that only report an outcome.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.TransactionID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Balance:     t.Balance,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
}

// ToListTransactionResponse converts domain transactions to DTOs, never returning nil.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(t)
	}
	return res
}

// ToDomainTransaction converts a TransactionResponse back into a domain.Transaction.
func (r TransactionResponse) ToDomainTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID: r.ID,
		Date:          r.Date,
		Description:   r.Description,
		Amount:        r.Amount,
		Balance:       r.Balance,
		Category:      r.Category,
		AuditFields:   domain.AuditFields{CreatedAt: r.CreatedAt},
	}
}

// ToDomainTransactionSlice converts a list of DTOs into domain transactions.
func ToDomainTransactionSlice(rs []TransactionResponse) []domain.Transaction {
	out := make([]domain.Transaction, len(rs))
	for i, r := range rs {
		out[i] = r.ToDomainTransaction()
	}
	return out
}

// NewCreateTransactionRequest builds the wire request for a locally created record.
func NewCreateTransactionRequest(t domain.Transaction) CreateTransactionRequest {
	req := CreateTransactionRequest{
		ID:          t.TransactionID,
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    t.Category,
	}
	if t.Amount.Valid {
		amount := t.Amount.Decimal
		req.Amount = &amount
	}
	if t.Balance.Valid {
		balance := t.Balance.Decimal
		req.Balance = &balance
	}
	return req
}
