package ports

import (
	"context"
	"time"
)

// LanguageModel is a single-turn text completion backend.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EventType names a transaction lifecycle event; it doubles as the routing key.
type EventType string

const (
	EventTransactionCreated  EventType = "transaction.created"
	EventTransactionDeleted  EventType = "transaction.deleted"
	EventTransactionImported EventType = "transaction.imported"
)

// TransactionEvent is published after a successful mutation.
type TransactionEvent struct {
	Type           EventType `json:"type"`
	TransactionIDs []string  `json:"transactionIds"`
	Actor          string    `json:"actor,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// EventPublisher delivers transaction events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
	Close() error
}
