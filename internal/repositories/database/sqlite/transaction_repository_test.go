package sqlite_test

import (
	"path/filepath"
	"testing"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/finance_tracker/internal/repositories/repotest"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTransactionRepository(t *testing.T) {
	suite.Run(t, &repotest.TransactionRepositorySuite{
		NewRepo: func() portsrepo.TransactionRepositoryFacade {
			db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "finance.db"))
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return sqlite.NewTransactionRepository(db)
		},
	})
}
