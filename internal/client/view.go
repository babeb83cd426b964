package client

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Column names a sortable field.
type Column string

const (
	ColumnDate        Column = "date"
	ColumnAmount      Column = "amount"
	ColumnCategory    Column = "category"
	ColumnDescription Column = "description"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState describes the active sort, if any.
type SortState struct {
	Column    Column
	Direction Direction
	Active    bool
}

// View derives a filtered projection of a Store. Filters never touch the
// store; sorting reorders the store itself.
type View struct {
	store *Store

	mu        sync.RWMutex
	search    string
	start     domain.Date
	end       domain.Date
	minAmount decimal.NullDecimal
	maxAmount decimal.NullDecimal
	sort      SortState
}

// NewView creates a View over store.
func NewView(store *Store) *View {
	return &View{store: store}
}

// SetSearchTerm sets the case-insensitive description filter. Empty clears it.
func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = strings.ToLower(strings.TrimSpace(term))
}

// SetDateRange sets the inclusive date filter. It only applies when both
// bounds are set.
func (v *View) SetDateRange(start, end domain.Date) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.start, v.end = start, end
}

// SetAmountRange sets the inclusive amount filter. Either bound may be left
// invalid to leave that side open.
func (v *View) SetAmountRange(lo, hi decimal.NullDecimal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.minAmount, v.maxAmount = lo, hi
}

// ResetFilters clears every filter and the sort state, then reloads the store.
func (v *View) ResetFilters(ctx context.Context) error {
	v.mu.Lock()
	v.search = ""
	v.start, v.end = domain.Date{}, domain.Date{}
	v.minAmount, v.maxAmount = decimal.NullDecimal{}, decimal.NullDecimal{}
	v.sort = SortState{}
	v.mu.Unlock()

	return v.store.Load(ctx)
}

// Sort stably sorts the whole store by column. Records missing the column's
// value go last in either direction.
func (v *View) Sort(column Column, dir Direction) error {
	compare, err := comparatorFor(column, dir)
	if err != nil {
		return err
	}
	v.store.SortStableFunc(compare)

	v.mu.Lock()
	v.sort = SortState{Column: column, Direction: dir, Active: true}
	v.mu.Unlock()
	return nil
}

// ToggleSort sorts by column, flipping direction when column is already the
// active sort and starting ascending otherwise.
func (v *View) ToggleSort(column Column) (Direction, error) {
	v.mu.RLock()
	cur := v.sort
	v.mu.RUnlock()

	dir := Ascending
	if cur.Active && cur.Column == column && cur.Direction == Ascending {
		dir = Descending
	}
	return dir, v.Sort(column, dir)
}

// SortState returns the active sort.
func (v *View) SortState() SortState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sort
}

// VisibleRows yields the store's records that pass every filter, in store
// order. Each iteration recomputes from the current store.
func (v *View) VisibleRows() iter.Seq[domain.Transaction] {
	return func(yield func(domain.Transaction) bool) {
		for t := range v.Filter(v.store.Snapshot()) {
			if !yield(t) {
				return
			}
		}
	}
}

// Filter yields the records of list that pass the current filters. Callers
// holding a list delivered by Store.Subscribe use it to stay on that version.
func (v *View) Filter(list []domain.Transaction) iter.Seq[domain.Transaction] {
	return func(yield func(domain.Transaction) bool) {
		match := v.matcher()
		for _, t := range list {
			if match(t) && !yield(t) {
				return
			}
		}
	}
}

// Rows collects VisibleRows into a slice.
func (v *View) Rows() []domain.Transaction {
	return slices.Collect(v.VisibleRows())
}

func (v *View) matcher() func(domain.Transaction) bool {
	v.mu.RLock()
	search := v.search
	start, end := v.start, v.end
	minAmount, maxAmount := v.minAmount, v.maxAmount
	v.mu.RUnlock()

	dateFilter := !start.IsZero() && !end.IsZero()
	amountFilter := minAmount.Valid || maxAmount.Valid

	return func(t domain.Transaction) bool {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			return false
		}
		if dateFilter && !t.Date.Within(start, end) {
			return false
		}
		if amountFilter {
			if !t.Amount.Valid {
				return false
			}
			if minAmount.Valid && t.Amount.Decimal.LessThan(minAmount.Decimal) {
				return false
			}
			if maxAmount.Valid && t.Amount.Decimal.GreaterThan(maxAmount.Decimal) {
				return false
			}
		}
		return true
	}
}

// sortKey splits a column into a presence check and an ordering of present
// values, so records without a value never have to be compared.
type sortKey struct {
	present func(domain.Transaction) bool
	compare func(a, b domain.Transaction) int
}

func sortKeyFor(column Column) (sortKey, error) {
	switch column {
	case ColumnDate:
		return sortKey{
			present: func(t domain.Transaction) bool { return !t.Date.IsZero() },
			compare: func(a, b domain.Transaction) int { return a.Date.Compare(b.Date) },
		}, nil
	case ColumnAmount:
		return sortKey{
			present: func(t domain.Transaction) bool { return t.Amount.Valid },
			compare: func(a, b domain.Transaction) int { return a.Amount.Decimal.Cmp(b.Amount.Decimal) },
		}, nil
	case ColumnCategory:
		return sortKey{
			present: domain.Transaction.HasCategory,
			compare: func(a, b domain.Transaction) int {
				return cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
			},
		}, nil
	case ColumnDescription:
		return sortKey{
			present: func(domain.Transaction) bool { return true },
			compare: func(a, b domain.Transaction) int {
				return cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
			},
		}, nil
	default:
		return sortKey{}, fmt.Errorf("%w: unsupported sort column %q", apperrors.ErrValidation, column)
	}
}

// comparatorFor returns a total order for column in direction dir. Present
// values are ordered by dir; records missing the value sort after all of them
// and tie with each other.
func comparatorFor(column Column, dir Direction) (func(a, b domain.Transaction) int, error) {
	key, err := sortKeyFor(column)
	if err != nil {
		return nil, err
	}
	return func(a, b domain.Transaction) int {
		ap, bp := key.present(a), key.present(b)
		switch {
		case ap && bp:
			if dir == Descending {
				return key.compare(b, a)
			}
			return key.compare(a, b)
		case ap:
			return -1
		case bp:
			return 1
		default:
			return 0
		}
	}, nil
}
