package mapping

import (
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Position is assigned by the store and left zero here.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		Description:   d.Description,
		Amount:        d.Amount,
		Balance:       d.Balance,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if !d.Date.IsZero() {
		t := d.Date.Time
		m.TxnDate = &t
	}
	if c := strings.TrimSpace(d.Category); c != "" {
		m.Category = &c
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Amount:        m.Amount,
		Balance:       m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.TxnDate != nil {
		d.Date = domain.DateOf(m.TxnDate.In(time.UTC))
	}
	if m.Category != nil {
		d.Category = *m.Category
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
