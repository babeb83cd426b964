package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

const chatSystemPrompt = `You are a personal finance assistant. Answer the user's question using only the transactions provided.
Negative amounts are expenses and positive amounts are income. If the data cannot answer the question, say so briefly.`

// chatService relays a question plus transaction context to a language model.
type chatService struct {
	BaseService
	model ports.LanguageModel
}

// NewChatService creates a chat service. A nil model makes every call fail
// with apperrors.ErrUnavailable.
func NewChatService(model ports.LanguageModel) portssvc.ChatSvc {
	return &chatService{model: model}
}

var _ portssvc.ChatSvc = (*chatService)(nil)

// chatRow is the compact shape sent to the model.
type chatRow struct {
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Balance     string `json:"balance,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (s *chatService) Answer(ctx context.Context, question string, transactions []domain.Transaction) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.Validationf("question must not be empty")
	}
	if s.model == nil {
		return "", fmt.Errorf("%w: language model is not configured", apperrors.ErrUnavailable)
	}

	prompt, err := buildChatPrompt(question, transactions)
	if err != nil {
		return "", fmt.Errorf("failed to build chat prompt: %w", err)
	}

	answer, err := s.model.Complete(ctx, chatSystemPrompt, prompt)
	if err != nil {
		s.LogError(ctx, err, "Language model call failed", slog.Int("transaction_count", len(transactions)))
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}

	s.LogDebug(ctx, "Chat answered", slog.Int("transaction_count", len(transactions)), slog.Int("answer_length", len(answer)))
	return strings.TrimSpace(answer), nil
}

func buildChatPrompt(question string, transactions []domain.Transaction) (string, error) {
	rows := make([]chatRow, len(transactions))
	for i, t := range transactions {
		rows[i] = chatRow{
			Date:        t.Date.String(),
			Description: t.Description,
			Category:    t.Category,
		}
		if t.Amount.Valid {
			rows[i].Amount = t.Amount.Decimal.String()
		}
		if t.Balance.Valid {
			rows[i].Balance = t.Balance.Decimal.String()
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Transactions (JSON):\n")
	b.Write(data)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String(), nil
}
