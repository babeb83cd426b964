package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/csvimport"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// Deps are the collaborators the frontend drives.
type Deps struct {
	Ctx          context.Context
	Store        *client.Store
	View         *client.View
	Gauge        *client.Gauge
	Chat         *client.Chat
	GaugeUpdates <-chan client.Reading
	StoreUpdates <-chan []domain.Transaction
	Logger       *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	mode mode

	// list is the store version the table and chart were both derived from.
	list      []domain.Transaction
	table     table.Model
	rows      []domain.Transaction
	breakdown domain.CategoryBreakdown

	search    textinput.Model
	rangeFrom textinput.Model
	rangeTo   textinput.Model
	addFields []textinput.Model
	upload    textinput.Model
	question  textinput.Model
	limit     textinput.Model
	focus     int

	pendingDelete domain.Transaction
	reading       client.Reading

	tableErr  string
	addErr    string
	uploadMsg string
	uploadErr bool
	limitErr  string
	chatReply client.Reply
	chatBusy  bool

	width  int
	height int
}

// New builds the root model.
func New(deps Deps) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	m := Model{
		deps:      deps,
		table:     newTransactionTable(),
		search:    newInput("search> ", "description contains", 0),
		rangeFrom: newInput("from> ", "YYYY-MM-DD", 10),
		rangeTo:   newInput("to> ", "YYYY-MM-DD", 10),
		upload:    newInput("csv> ", "path/to/export.csv", 0),
		question:  newInput("ask> ", "How much did I spend on food?", 0),
		limit:     newInput("limit> ", "1200", 0),
		addFields: []textinput.Model{
			newInput("date> ", "YYYY-MM-DD", 10),
			newInput("description> ", "Coffee Shop", 500),
			newInput("amount> ", "-5.00", 0),
			newInput("balance> ", "optional", 0),
			newInput("category> ", "optional", 100),
		},
	}
	if deps.Gauge != nil {
		m.reading = deps.Gauge.Reading()
	}
	return m
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	in := textinput.New()
	_ = in.Cursor.SetMode(cursor.CursorStatic)
	in.Prompt = prompt
	in.Placeholder = placeholder
	if limit > 0 {
		in.CharLimit = limit
	}
	return in
}

// Init loads the transactions and starts the gauge.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadCmd(m.deps.Ctx, m.deps.Store)}
	if m.deps.Gauge != nil {
		m.deps.Gauge.Start(m.deps.Ctx)
	}
	if m.deps.GaugeUpdates != nil {
		cmds = append(cmds, waitForGauge(m.deps.GaugeUpdates))
	}
	if m.deps.StoreUpdates != nil {
		cmds = append(cmds, waitForStore(m.deps.StoreUpdates))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height/2-4))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			// load failures are logged by the store only
			m.deps.Logger.Debug("Load finished with error", slog.String("error", msg.err.Error()))
		}
		m.refreshRows()
		return m, nil

	case addedMsg:
		if msg.err != nil {
			m.addErr = errorText(msg.err)
		} else {
			m.addErr = ""
		}
		m.refreshRows()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.tableErr = errorText(msg.err)
		} else {
			m.tableErr = ""
		}
		m.refreshRows()
		return m, nil

	case importedMsg:
		if msg.err != nil {
			m.uploadMsg, m.uploadErr = errorText(msg.err), true
		} else {
			m.uploadMsg, m.uploadErr = fmt.Sprintf("Imported %d transactions", msg.count), false
		}
		m.refreshRows()
		return m, nil

	case sortedMsg:
		if msg.err != nil {
			m.tableErr = errorText(msg.err)
		}
		m.refreshRows()
		return m, nil

	case chatReplyMsg:
		m.chatBusy = false
		m.chatReply = client.Reply(msg)
		return m, nil

	case storeChangedMsg:
		m.show([]domain.Transaction(msg))
		if m.deps.StoreUpdates == nil {
			return m, nil
		}
		return m, waitForStore(m.deps.StoreUpdates)

	case gaugeMsg:
		m.reading = client.Reading(msg)
		return m, waitForGauge(m.deps.GaugeUpdates)

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m.quit()
		}
		switch m.mode {
		case modeBrowse:
			return m.updateBrowse(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateInput(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.deps.Gauge != nil {
		m.deps.Gauge.Stop()
	}
	return m, tea.Quit
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if col, ok := sortKeys[key]; ok {
		return m, sortCmd(m.deps.View, col)
	}

	switch key {
	case keyQuit:
		return m.quit()
	case keySearch:
		return m.enter(modeSearch)
	case keyRange:
		m.rangeTo.Blur()
		return m.enter(modeDateRange)
	case keyAdd:
		m.addErr = ""
		for i := range m.addFields {
			m.addFields[i].Reset()
			m.addFields[i].Blur()
		}
		return m.enter(modeAdd)
	case keyDelete:
		i := m.table.Cursor()
		if i < 0 || i >= len(m.rows) {
			return m, nil
		}
		m.pendingDelete = m.rows[i]
		m.mode = modeConfirmDelete
		return m, nil
	case keyUpload:
		m.uploadMsg = ""
		return m.enter(modeUpload)
	case keyChat:
		return m.enter(modeChat)
	case keyLimit:
		m.limitErr = ""
		m.limit.SetValue(m.reading.Limit.String())
		return m.enter(modeLimit)
	case keyReset:
		m.search.Reset()
		m.rangeFrom.Reset()
		m.rangeTo.Reset()
		m.tableErr = ""
		return m, resetCmd(m.deps.Ctx, m.deps.View)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) enter(next mode) (tea.Model, tea.Cmd) {
	m.mode = next
	m.focus = 0
	m.table.Blur()
	return m, m.activeInput().Focus()
}

func (m Model) leave() Model {
	m.mode = modeBrowse
	for _, in := range m.inputs() {
		in.Blur()
	}
	m.table.Focus()
	return m
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyConfirm:
		id := m.pendingDelete.TransactionID
		m.pendingDelete = domain.Transaction{}
		return m.leave(), deleteCmd(m.deps.Ctx, m.deps.Store, id)
	case keyDecline, keyCancel:
		m.pendingDelete = domain.Transaction{}
		return m.leave(), nil
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCancel:
		return m.leave(), nil
	case keySubmit:
		return m.submit()
	case keyNext, keyPrev:
		if fields := m.focusGroup(); len(fields) > 1 {
			fields[m.focus].Blur()
			step := 1
			if msg.String() == keyPrev {
				step = len(fields) - 1
			}
			m.focus = (m.focus + step) % len(fields)
			return m, fields[m.focus].Focus()
		}
	}

	in := m.activeInput()
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if m.mode == modeSearch {
		m.deps.View.SetSearchTerm(m.search.Value())
		m.refreshRows()
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		m.deps.View.SetSearchTerm(m.search.Value())
		m.refreshRows()
		return m.leave(), nil

	case modeDateRange:
		start, errFrom := domain.ParseDate(m.rangeFrom.Value())
		end, errTo := domain.ParseDate(m.rangeTo.Value())
		if err := errors.Join(errFrom, errTo); err != nil {
			m.tableErr = errorText(err)
			return m, nil
		}
		m.tableErr = ""
		m.deps.View.SetDateRange(start, end)
		m.refreshRows()
		return m.leave(), nil

	case modeAdd:
		t, err := m.formTransaction()
		if err != nil {
			m.addErr = errorText(err)
			return m, nil
		}
		next := m.leave()
		next.refreshRows()
		return next, addCmd(m.deps.Ctx, m.deps.Store, t)

	case modeUpload:
		path := strings.TrimSpace(m.upload.Value())
		if path == "" {
			m.uploadMsg, m.uploadErr = "No file received", true
			return m, nil
		}
		m.upload.Reset()
		return m.leave(), importCmd(m.deps.Ctx, m.deps.Store, path)

	case modeChat:
		q := strings.TrimSpace(m.question.Value())
		if q == "" {
			return m, nil
		}
		m.question.Reset()
		m.chatBusy = true
		m.chatReply = client.Reply{}
		return m.leave(), chatCmd(m.deps.Ctx, m.deps.Chat, q, m.list)

	case modeLimit:
		limit, err := decimal.NewFromString(strings.TrimSpace(m.limit.Value()))
		if err != nil {
			m.limitErr = "limit must be a number"
			return m, nil
		}
		m.limitErr = ""
		if m.deps.Gauge != nil {
			m.deps.Gauge.SetLimit(limit)
			m.reading = m.deps.Gauge.Reading()
		}
		return m.leave(), nil
	}
	return m.leave(), nil
}

// formTransaction validates the add-row form before any request is made.
func (m Model) formTransaction() (domain.Transaction, error) {
	var t domain.Transaction
	date, err := domain.ParseDate(m.addFields[0].Value())
	if err != nil {
		return t, err
	}
	amount, err := csvimport.ParseAmount(m.addFields[2].Value())
	if err != nil {
		return t, fmt.Errorf("amount: %w", err)
	}
	balance, err := csvimport.ParseAmount(m.addFields[3].Value())
	if err != nil {
		return t, fmt.Errorf("balance: %w", err)
	}
	t = domain.Transaction{
		Date:        date,
		Description: strings.TrimSpace(m.addFields[1].Value()),
		Amount:      amount,
		Balance:     balance,
		Category:    strings.TrimSpace(m.addFields[4].Value()),
	}
	if err := t.RequireComplete(); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func (m *Model) focusGroup() []*textinput.Model {
	switch m.mode {
	case modeDateRange:
		return []*textinput.Model{&m.rangeFrom, &m.rangeTo}
	case modeAdd:
		out := make([]*textinput.Model, len(m.addFields))
		for i := range m.addFields {
			out[i] = &m.addFields[i]
		}
		return out
	}
	return nil
}

func (m *Model) activeInput() *textinput.Model {
	switch m.mode {
	case modeSearch:
		return &m.search
	case modeDateRange:
		if m.focus == 0 {
			return &m.rangeFrom
		}
		return &m.rangeTo
	case modeAdd:
		return &m.addFields[m.focus]
	case modeUpload:
		return &m.upload
	case modeChat:
		return &m.question
	case modeLimit:
		return &m.limit
	}
	return nil
}

func (m *Model) inputs() []*textinput.Model {
	out := []*textinput.Model{&m.search, &m.rangeFrom, &m.rangeTo, &m.upload, &m.question, &m.limit}
	for i := range m.addFields {
		out = append(out, &m.addFields[i])
	}
	return out
}

// refreshRows re-reads the store and re-derives the table and chart.
func (m *Model) refreshRows() {
	m.show(m.deps.Store.Snapshot())
}

// show derives both the table rows and the category chart from list, so the
// two panels never disagree about which records exist.
func (m *Model) show(list []domain.Transaction) {
	m.list = list
	m.rows = slices.Collect(m.deps.View.Filter(list))
	m.breakdown = domain.AggregateByCategory(list, nil)
	m.table.SetRows(tableRows(m.rows))
	if c := m.table.Cursor(); c >= len(m.rows) {
		m.table.SetCursor(max(0, len(m.rows)-1))
	}
}

func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
