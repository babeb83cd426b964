package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	transactionColumns = `transaction_id, position, txn_date, description, amount, balance, category,
		created_at, created_by, last_updated_at, last_updated_by`

	insertTransactionQuery = `
		INSERT INTO transactions (transaction_id, txn_date, description, amount, balance, category,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction records.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func insertArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.TxnDate,
		m.Description,
		m.Amount,
		m.Balance,
		m.Category,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Position,
		&m.TxnDate,
		&m.Description,
		&m.Amount,
		&m.Balance,
		&m.Category,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction appends a single record; position is assigned by the database.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	if _, err := r.Pool.Exec(ctx, insertTransactionQuery, insertArgs(m)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// SaveTransactions appends all records in one database transaction, preserving slice order.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, insertArgs(mapping.ToModelTransaction(txn))...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("imported transaction: %w", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to insert %d transactions", len(txns)), err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a record by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves all records in insertion order.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY position;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// FindTransactionIDAtPosition resolves the index-th record in ListTransactions order.
func (r *PgxTransactionRepository) FindTransactionIDAtPosition(ctx context.Context, index int) (string, error) {
	query := `SELECT transaction_id FROM transactions ORDER BY position OFFSET $1 LIMIT 1;`

	var transactionID string
	if err := r.Pool.QueryRow(ctx, query, index).Scan(&transactionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find transaction at index %d: %w", index, err)
	}
	return transactionID, nil
}

// DeleteTransaction removes a record by ID.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
