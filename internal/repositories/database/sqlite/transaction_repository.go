package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
)

const (
	transactionColumns = `transaction_id, position, txn_date, description, amount, balance, category,
		created_at, created_by, last_updated_at, last_updated_by`

	insertTransactionQuery = `
		INSERT INTO transactions (transaction_id, txn_date, description, amount, balance, category,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	timestampLayout = time.RFC3339Nano
)

// TransactionRepository stores transaction records in a SQLite database.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository wraps an open database whose schema is already migrated.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	var txnDate, category sql.NullString
	if m.TxnDate != nil {
		txnDate = sql.NullString{String: m.TxnDate.Format(domain.DateLayout), Valid: true}
	}
	if m.Category != nil {
		category = sql.NullString{String: *m.Category, Valid: true}
	}

	_, err := db.ExecContext(ctx, insertTransactionQuery,
		m.TransactionID,
		txnDate,
		m.Description,
		m.Amount,
		m.Balance,
		category,
		m.CreatedAt.UTC().Format(timestampLayout),
		m.CreatedBy,
		m.LastUpdatedAt.UTC().Format(timestampLayout),
		m.LastUpdatedBy,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("transaction %s: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		m                    models.Transaction
		txnDate, category    sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&m.TransactionID,
		&m.Position,
		&txnDate,
		&m.Description,
		&m.Amount,
		&m.Balance,
		&category,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	if txnDate.Valid {
		t, err := time.Parse(domain.DateLayout, txnDate.String)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("parse txn_date %q: %w", txnDate.String, err)
		}
		m.TxnDate = &t
	}
	if category.Valid {
		m.Category = &category.String
	}
	if m.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if m.LastUpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse last_updated_at: %w", err)
	}
	return mapping.ToDomainTransaction(m), nil
}

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insert(ctx, r.db, txn)
}

func (r *TransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, txn := range txns {
		if err := insert(ctx, tx, txn); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?;`, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) FindTransactionIDAtPosition(ctx context.Context, index int) (string, error) {
	var transactionID string
	err := r.db.QueryRowContext(ctx, `SELECT transaction_id FROM transactions ORDER BY position LIMIT 1 OFFSET ?;`, index).Scan(&transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("find transaction at index %d: %w", index, err)
	}
	return transactionID, nil
}

func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?;`, transactionID)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", transactionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", transactionID, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
