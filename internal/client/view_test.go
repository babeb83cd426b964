package client_test

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(day int) domain.Date {
	return domain.NewDate(2024, time.January, day)
}

func sampleRecords() []domain.Transaction {
	return []domain.Transaction{
		txn("1", "2024-01-01", "Coffee Shop", "-5", "Food"),
		txn("2", "2024-02-01", "Coffee Shop", "-5", "Food"),
		txn("3", "2024-01-15", "Rent", "-1000", "Housing"),
		txn("4", "2024-01-20", "Salary", "3000", "Income"),
	}
}

func newView(records []domain.Transaction) (*client.View, *client.Store, *MockTransactionService) {
	svc := new(MockTransactionService)
	store := client.NewStore(svc, nil)
	store.ReplaceAll(records)
	return client.NewView(store), store, svc
}

func TestView_SearchAndDateRangeIntersect(t *testing.T) {
	view, _, _ := newView(sampleRecords())

	view.SetSearchTerm("coffee")
	assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))

	view.SetDateRange(jan(1), jan(31))
	assert.Equal(t, []string{"1"}, ids(view.Rows()))

	view.SetSearchTerm("")
	assert.Equal(t, []string{"1", "3", "4"}, ids(view.Rows()))
}

func TestView_PartialDateRangeIsIgnored(t *testing.T) {
	view, _, _ := newView(sampleRecords())

	view.SetDateRange(jan(10), domain.Date{})
	assert.Len(t, view.Rows(), 4)

	view.SetDateRange(domain.Date{}, jan(10))
	assert.Len(t, view.Rows(), 4)
}

func TestView_AmountRange(t *testing.T) {
	records := append(sampleRecords(), txn("5", "2024-01-02", "Pending", "", ""))
	view, _, _ := newView(records)

	view.SetAmountRange(decimal.NewNullDecimal(decimal.NewFromInt(-10)), decimal.NullDecimal{})
	assert.Equal(t, []string{"1", "2", "4"}, ids(view.Rows()))

	view.SetAmountRange(decimal.NullDecimal{}, decimal.NewNullDecimal(decimal.Zero))
	assert.Equal(t, []string{"1", "2", "3"}, ids(view.Rows()))
}

func TestView_FilterUsesGivenList(t *testing.T) {
	view, store, _ := newView(sampleRecords())
	view.SetSearchTerm("coffee")

	delivered := store.Snapshot()
	store.Append(txn("5", "2024-03-01", "Coffee Beans", "-12", "Food"))

	assert.Equal(t, []string{"1", "2"}, ids(slices.Collect(view.Filter(delivered))))
	assert.Equal(t, []string{"1", "2", "5"}, ids(view.Rows()))

	view.SetSearchTerm("groceries")
	assert.Empty(t, slices.Collect(view.Filter(delivered)))
	assert.Empty(t, view.Rows())
}

func TestView_VisibleRowsIsRestartableAndLive(t *testing.T) {
	view, store, _ := newView(sampleRecords())
	seq := view.VisibleRows()

	first := slices.Collect(seq)
	store.Append(txn("5", "2024-01-03", "Coffee Beans", "-12", "Food"))
	second := slices.Collect(seq)

	assert.Len(t, first, 4)
	assert.Len(t, second, 5)

	// early break
	for range seq {
		break
	}
}

func TestView_SortPersistsToStore(t *testing.T) {
	view, store, _ := newView(sampleRecords())

	require.NoError(t, view.Sort(client.ColumnDate, client.Ascending))
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(store.Snapshot()))

	view.SetSearchTerm("coffee")
	assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))

	require.NoError(t, view.Sort(client.ColumnDate, client.Descending))
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(store.Snapshot()))
}

func TestView_SortDescendingReversesAscending(t *testing.T) {
	records := []domain.Transaction{
		txn("a", "2024-01-03", "c", "7", "Zeta"),
		txn("b", "2024-01-01", "a", "-2", "alpha"),
		txn("c", "2024-01-02", "b", "3", "Mid"),
	}
	for _, col := range []client.Column{client.ColumnDate, client.ColumnAmount, client.ColumnCategory, client.ColumnDescription} {
		t.Run(string(col), func(t *testing.T) {
			view, store, _ := newView(records)

			require.NoError(t, view.Sort(col, client.Ascending))
			asc := ids(store.Snapshot())
			require.NoError(t, view.Sort(col, client.Ascending))
			assert.Equal(t, asc, ids(store.Snapshot()), "repeated ascending sort is idempotent")

			require.NoError(t, view.Sort(col, client.Descending))
			desc := ids(store.Snapshot())
			slices.Reverse(desc)
			assert.Equal(t, asc, desc)
		})
	}
}

func TestView_SortToleratesMissingValues(t *testing.T) {
	records := []domain.Transaction{
		txn("a", "", "no date", "", ""),
		txn("b", "2024-01-02", "x", "1", "A"),
		txn("c", "2024-01-01", "y", "", ""),
	}
	view, store, _ := newView(records)

	for _, col := range []client.Column{client.ColumnDate, client.ColumnAmount, client.ColumnCategory} {
		assert.NotPanics(t, func() {
			require.NoError(t, view.Sort(col, client.Ascending))
			require.NoError(t, view.Sort(col, client.Descending))
		})
	}
	assert.Equal(t, 3, store.Len())
}

func TestView_SortPutsMissingValuesLast(t *testing.T) {
	records := []domain.Transaction{
		txn("big", "2024-01-03", "x", "30", "C"),
		txn("blank1", "", "x", "", ""),
		txn("small", "2024-01-01", "x", "10", "A"),
		txn("blank2", "", "x", "", ""),
		txn("mid", "2024-01-02", "x", "20", "B"),
	}
	for _, col := range []client.Column{client.ColumnDate, client.ColumnAmount, client.ColumnCategory} {
		t.Run(string(col), func(t *testing.T) {
			view, store, _ := newView(records)

			require.NoError(t, view.Sort(col, client.Ascending))
			assert.Equal(t, []string{"small", "mid", "big", "blank1", "blank2"}, ids(store.Snapshot()))

			require.NoError(t, view.Sort(col, client.Descending))
			assert.Equal(t, []string{"big", "mid", "small", "blank1", "blank2"}, ids(store.Snapshot()))
		})
	}
}

func TestView_SortKeepsConcurrentAppends(t *testing.T) {
	records := make([]domain.Transaction, 20000)
	for i := range records {
		records[i] = txn(fmt.Sprintf("r%05d", i), "", "x", strconv.Itoa(len(records)-i), "")
	}
	view, store, _ := newView(records)

	for round := range 10 {
		added := fmt.Sprintf("added-%d", round)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, view.Sort(client.ColumnAmount, client.Ascending))
		}()
		go func() {
			defer wg.Done()
			store.Append(txn(added, "", "late", "1", ""))
		}()
		wg.Wait()

		assert.Contains(t, ids(store.Snapshot()), added)
	}
	assert.Equal(t, len(records)+10, store.Len())
}

func TestView_ToggleSort(t *testing.T) {
	view, _, _ := newView(sampleRecords())

	dir, err := view.ToggleSort(client.ColumnAmount)
	require.NoError(t, err)
	assert.Equal(t, client.Ascending, dir)

	dir, _ = view.ToggleSort(client.ColumnAmount)
	assert.Equal(t, client.Descending, dir)

	dir, _ = view.ToggleSort(client.ColumnAmount)
	assert.Equal(t, client.Ascending, dir)

	_, _ = view.ToggleSort(client.ColumnAmount)
	dir, _ = view.ToggleSort(client.ColumnCategory)
	assert.Equal(t, client.Ascending, dir, "new column starts ascending")
	assert.Equal(t, client.SortState{Column: client.ColumnCategory, Direction: client.Ascending, Active: true}, view.SortState())

	_, err = view.ToggleSort("balance")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestView_ResetFilters(t *testing.T) {
	view, store, svc := newView(sampleRecords())
	fresh := []domain.Transaction{txn("9", "2024-03-01", "Fresh", "-1", "")}
	svc.On("FetchAll", context.Background()).Return(fresh, nil).Once()

	view.SetSearchTerm("coffee")
	view.SetDateRange(jan(1), jan(31))
	view.SetAmountRange(decimal.NewNullDecimal(decimal.Zero), decimal.NullDecimal{})
	require.NoError(t, view.Sort(client.ColumnAmount, client.Descending))

	require.NoError(t, view.ResetFilters(context.Background()))

	assert.Equal(t, []string{"9"}, ids(view.Rows()))
	assert.Equal(t, ids(store.Snapshot()), ids(view.Rows()))
	assert.False(t, view.SortState().Active)
}
