package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// ErrorPrefix marks a Reply that reports a failure.
const ErrorPrefix = "Error: "

// ChatRelay forwards a question and transactions to the backend.
type ChatRelay interface {
	Chat(ctx context.Context, question string, txns []domain.Transaction) (string, error)
}

// Reply is the text shown in the chat panel.
type Reply struct {
	Text    string
	IsError bool
}

// Chat asks questions about the current transactions.
type Chat struct {
	relay  ChatRelay
	logger *slog.Logger
}

// NewChat creates a Chat using relay.
func NewChat(relay ChatRelay, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chat{relay: relay, logger: logger}
}

// Ask sends question with txns and returns the answer. Failures come back as
// a Reply with IsError set rather than as an error.
func (c *Chat) Ask(ctx context.Context, question string, txns []domain.Transaction) Reply {
	question = strings.TrimSpace(question)
	if question == "" {
		return errorReply("please enter a question")
	}

	answer, err := c.relay.Chat(ctx, question, txns)
	if err != nil {
		c.logger.WarnContext(ctx, "Chat request failed", slog.String("error", err.Error()))
		return errorReply(err.Error())
	}
	return Reply{Text: answer}
}

func errorReply(msg string) Reply {
	return Reply{Text: ErrorPrefix + msg, IsError: true}
}
