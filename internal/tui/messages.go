package tui

import (
	"context"
	"os"

	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	tea "github.com/charmbracelet/bubbletea"
)

type loadedMsg struct{ err error }

type addedMsg struct {
	txn domain.Transaction
	err error
}

type deletedMsg struct{ err error }

type importedMsg struct {
	count int
	err   error
}

type sortedMsg struct {
	column client.Column
	dir    client.Direction
	err    error
}

type chatReplyMsg client.Reply

type gaugeMsg client.Reading

// storeChangedMsg carries the list a store subscriber was handed.
type storeChangedMsg []domain.Transaction

func loadCmd(ctx context.Context, store *client.Store) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: store.Load(ctx)}
	}
}

func resetCmd(ctx context.Context, view *client.View) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: view.ResetFilters(ctx)}
	}
}

func addCmd(ctx context.Context, store *client.Store, t domain.Transaction) tea.Cmd {
	return func() tea.Msg {
		added, err := store.Add(ctx, t)
		return addedMsg{txn: added, err: err}
	}
}

func deleteCmd(ctx context.Context, store *client.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: store.Delete(ctx, id)}
	}
}

func importCmd(ctx context.Context, store *client.Store, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importedMsg{err: err}
		}
		defer f.Close()
		rows, err := store.Import(ctx, path, f)
		return importedMsg{count: len(rows), err: err}
	}
}

func sortCmd(view *client.View, column client.Column) tea.Cmd {
	return func() tea.Msg {
		dir, err := view.ToggleSort(column)
		return sortedMsg{column: column, dir: dir, err: err}
	}
}

func chatCmd(ctx context.Context, chat *client.Chat, question string, txns []domain.Transaction) tea.Cmd {
	return func() tea.Msg {
		return chatReplyMsg(chat.Ask(ctx, question, txns))
	}
}

// waitForGauge blocks until the gauge publishes a reading.
func waitForGauge(ch <-chan client.Reading) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return gaugeMsg(r)
	}
}

// waitForStore blocks until the store publishes a new list.
func waitForStore(ch <-chan []domain.Transaction) tea.Cmd {
	return func() tea.Msg {
		list, ok := <-ch
		if !ok {
			return nil
		}
		return storeChangedMsg(list)
	}
}

// NewGaugeFeed returns a channel for the model and a callback for
// client.WithOnUpdate. Only the newest unread reading is kept.
func NewGaugeFeed() (<-chan client.Reading, func(client.Reading)) {
	return newLatestFeed[client.Reading]()
}

// NewStoreFeed returns a channel for the model and a callback for
// Store.Subscribe. Only the newest unread list is kept.
func NewStoreFeed() (<-chan []domain.Transaction, func([]domain.Transaction)) {
	return newLatestFeed[[]domain.Transaction]()
}

func newLatestFeed[T any]() (<-chan T, func(T)) {
	ch := make(chan T, 1)
	return ch, func(v T) {
		for {
			select {
			case ch <- v:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}
