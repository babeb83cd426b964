package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// ChatSvc answers a free-form question about a set of transactions.
type ChatSvc interface {
	Answer(ctx context.Context, question string, transactions []domain.Transaction) (string, error)
}
