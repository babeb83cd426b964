package client_test

import (
	"context"
	"io"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) Add(ctx context.Context, t domain.Transaction) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransactionService) Upload(ctx context.Context, filename string, data io.Reader) ([]domain.Transaction, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockChatRelay struct {
	mock.Mock
}

func (m *MockChatRelay) Chat(ctx context.Context, question string, txns []domain.Transaction) (string, error) {
	args := m.Called(ctx, question, txns)
	return args.String(0), args.Error(1)
}
