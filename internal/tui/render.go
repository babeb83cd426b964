package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeWidth  = 40
	chartHeight = 10
	minChart    = 30
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87d787"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))

	severityColors = map[domain.Severity]lipgloss.Color{
		domain.SeverityGreen:  lipgloss.Color("#00af00"),
		domain.SeverityOrange: lipgloss.Color("#ff8700"),
		domain.SeverityRed:    lipgloss.Color("#d70000"),
	}
)

func newTransactionTable() table.Model {
	cols := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Category", Width: 14},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return t
}

func tableRows(txns []domain.Transaction) []table.Row {
	rows := make([]table.Row, len(txns))
	for i, t := range txns {
		rows[i] = table.Row{
			t.Date.String(),
			t.Description,
			formatAmount(t),
			nullString(t.Balance.Valid, t.Balance.Decimal.StringFixed(2)),
			t.Category,
		}
	}
	return rows
}

func formatAmount(t domain.Transaction) string {
	if !t.Amount.Valid {
		return ""
	}
	s := t.Amount.Decimal.StringFixed(2)
	if t.IsExpense() {
		return s
	}
	return "+" + s
}

func nullString(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finance Tracker"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(m.filterSummary()))
	b.WriteString("\n")

	b.WriteString(m.tablePanel())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.gaugePanel(), m.chartPanel()))
	b.WriteString("\n")
	b.WriteString(m.chatPanel())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(helpLine))
	return b.String()
}

func (m Model) filterSummary() string {
	var parts []string
	if v := strings.TrimSpace(m.search.Value()); v != "" {
		parts = append(parts, fmt.Sprintf("search=%q", v))
	}
	if from, to := m.rangeFrom.Value(), m.rangeTo.Value(); from != "" && to != "" {
		parts = append(parts, fmt.Sprintf("range=%s..%s", from, to))
	}
	if s := m.deps.View.SortState(); s.Active {
		parts = append(parts, fmt.Sprintf("sort=%s %s", s.Column, s.Direction))
	}
	return strings.Join(parts, "  ")
}

func (m Model) tablePanel() string {
	var b strings.Builder
	switch m.mode {
	case modeSearch:
		b.WriteString(m.search.View() + "\n")
	case modeDateRange:
		b.WriteString(m.rangeFrom.View() + "  " + m.rangeTo.View() + "\n")
	case modeConfirmDelete:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q (%s)? y/n", m.pendingDelete.Description, m.pendingDelete.Date)) + "\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("No data available"))
	} else {
		b.WriteString(m.table.View())
	}
	if m.tableErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.tableErr))
	}

	if m.mode == modeAdd {
		b.WriteString("\n\n" + titleStyle.Render("Add transaction") + "\n")
		for _, in := range m.addFields {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString(mutedStyle.Render("tab next field, enter save, esc cancel"))
	}
	if m.addErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.addErr))
	}

	if m.mode == modeUpload {
		b.WriteString("\n" + m.upload.View())
	}
	if m.uploadMsg != "" {
		style := infoStyle
		if m.uploadErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.uploadMsg))
	}
	return panelStyle.Render(b.String())
}

func (m Model) gaugePanel() string {
	r := m.reading
	filled := int(r.Percent / 100 * gaugeWidth)
	filled = min(max(filled, 0), gaugeWidth)
	bar := lipgloss.NewStyle().Foreground(severityColors[r.Severity]).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", gaugeWidth-filled))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Spending limit") + "\n")
	b.WriteString(bar + "\n")
	b.WriteString(fmt.Sprintf("%s / %s (%.1f%%)", r.Spent.StringFixed(2), r.Limit.StringFixed(2), r.Percent))
	if m.mode == modeLimit {
		b.WriteString("\n" + m.limit.View())
	}
	if m.limitErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.limitErr))
	}
	if r.Err != nil {
		b.WriteString("\n" + mutedStyle.Render("stale: "+errorText(r.Err)))
	}
	return panelStyle.Render(b.String())
}

func (m Model) chartPanel() string {
	breakdown := m.breakdown
	title := titleStyle.Render("By category")
	if breakdown.Len() == 0 {
		return panelStyle.Render(title + "\n" + mutedStyle.Render("No categorised transactions"))
	}

	width := max(minChart, m.width-gaugeWidth-10)
	return panelStyle.Render(title + "\n" + renderBreakdown(breakdown, width, chartHeight))
}

// renderBreakdown draws one bar per category, colored from the breakdown palette.
func renderBreakdown(b domain.CategoryBreakdown, width, height int) string {
	chart := barchart.New(width, height)
	for i, label := range b.Labels {
		chart.Push(barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  label,
				Value: b.Totals[i].InexactFloat64(),
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(b.Colors[i])),
			}},
		})
	}
	chart.Draw()

	legend := make([]string, b.Len())
	for i, label := range b.Labels {
		legend[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Colors[i])).Render("■ ") +
			fmt.Sprintf("%s %s", label, b.Totals[i].StringFixed(2))
	}
	return chart.View() + "\n" + strings.Join(legend, "  ")
}

func (m Model) chatPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ask about your spending") + "\n")
	if m.mode == modeChat {
		b.WriteString(m.question.View() + "\n")
	}
	switch {
	case m.chatBusy:
		b.WriteString(mutedStyle.Render("Thinking..."))
	case m.chatReply.IsError:
		b.WriteString(errorStyle.Render(m.chatReply.Text))
	case m.chatReply.Text != "":
		b.WriteString(m.chatReply.Text)
	}
	return panelStyle.Render(b.String())
}
