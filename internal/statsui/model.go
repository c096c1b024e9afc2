// Package statsui provides the Bubble Tea run history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/stats"
	"github.com/verte-zerg/mcpi/internal/store"
)

const (
	tabOverview = iota
	tabRuns
)

const (
	plotHeight       = 10
	detailCardWidth  = 36
	sideBySideMinCol = 110
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	last  int

	report stats.Report
	// runs are newest first, matching the table rows.
	runs   []model.RunRecord
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	runTable  table.Model

	width  int
	height int
}

// NewModel constructs a history UI over the last runs; last <= 0 shows all.
func NewModel(st *store.Store, last int) *Model {
	m := &Model{
		store:    st,
		last:     last,
		tabs:     []string{"Overview", "Runs"},
		overview: viewport.New(0, 0),
		runTable: newRunTable(),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabRuns {
				m.runTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRuns {
				m.runTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabRuns {
				m.runTable, cmd = m.runTable.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Selected returns the run under the table cursor.
func (m *Model) Selected() (model.RunRecord, bool) {
	idx := m.runTable.Cursor()
	if idx < 0 || idx >= len(m.runs) {
		return model.RunRecord{}, false
	}
	return m.runs[idx], true
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	tableWidth := m.width
	tableHeight := bodyHeight
	if m.width >= sideBySideMinCol {
		tableWidth = m.width - detailCardWidth - 4
	} else {
		tableHeight = bodyHeight - lipgloss.Height(m.renderDetail()) - 1
	}
	m.runTable.SetWidth(tableWidth)
	m.runTable.SetHeight(maxInt(1, tableHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabRuns {
		m.runTable.Focus()
	} else {
		m.runTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.last)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load runs.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.runs = slices.Clone(report.Runs)
	slices.Reverse(m.runs)
	cols, rows := buildRunTableData(m.runs)
	m.runTable.SetRows(nil)
	m.runTable.SetColumns(cols)
	m.runTable.SetRows(rows)
	m.runTable.GotoTop()
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	scope := "all runs"
	if m.last > 0 {
		scope = fmt.Sprintf("last %d runs", m.last)
	}
	summary := headerStyle.Render(fmt.Sprintf("Showing %s · %d loaded", scope, len(m.runs)))
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(summary, m.width)
}

func (m *Model) renderHelp() string {
	help := "←/→ tabs · ↑/↓ select · g/G top/bottom · r reload · q quit"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	if m.activeTab == tabOverview {
		return m.overview.View()
	}
	if len(m.runs) == 0 {
		return "No runs recorded."
	}
	tableView := tableMutedStyle.Render(m.runTable.View())
	detail := m.renderDetail()
	if m.width >= sideBySideMinCol {
		return lipgloss.JoinHorizontal(lipgloss.Top, tableView, "  ", detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tableView, "", detail)
}

func (m *Model) renderDetail() string {
	run, ok := m.Selected()
	if !ok {
		return cardStyle.Width(detailCardWidth).Render(cardTitleStyle.Render("No run selected"))
	}
	return renderRunCard(run)
}

func renderRunCard(run model.RunRecord) string {
	seed := "random"
	if run.Seed != nil {
		seed = strconv.FormatInt(*run.Seed, 10)
	}
	status := cardValueStyle.Render(run.Status)
	if run.Status != model.StatusOK {
		status = failedStyle.Render(run.Status)
	}
	fields := [][2]string{
		{"Run", strconv.FormatInt(run.ID, 10)},
		{"Started", run.StartedAt.Local().Format(time.DateTime)},
		{"Duration", run.Duration().Round(time.Millisecond).String()},
		{"Points", strconv.Itoa(run.Points)},
		{"Seed", seed},
		{"Data dir", run.DataDir},
	}
	if run.Status == model.StatusOK {
		fields = append(fields,
			[2]string{"Inside", fmt.Sprintf("%d / %d", run.Inside, run.Total)},
			[2]string{"π", fmt.Sprintf("%.6f", run.PiEstimate)},
			[2]string{"|Error|", fmt.Sprintf("%.6f", stats.AbsError(run.PiEstimate))},
		)
	}
	inner := detailCardWidth - 2
	lines := make([]string, 0, len(fields)+3)
	for _, f := range fields {
		label := cardTitleStyle.Render(fmt.Sprintf("%-9s", f[0]))
		lines = append(lines, label+cardValueStyle.Render(truncateLine(f[1], inner-9)))
	}
	lines = append(lines, cardTitleStyle.Render(fmt.Sprintf("%-9s", "Status"))+status)
	if run.Error != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(run.Error, inner)))
	}
	return cardStyle.Width(detailCardWidth).Render(strings.Join(lines, "\n"))
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Runs) == 0 {
		return "No runs recorded."
	}
	cards := renderSummaryCards(report.Summary, width)
	estimates := report.Estimates()
	if len(estimates) < 2 {
		return cards
	}
	ref := make([]float64, len(estimates))
	for i := range ref {
		ref[i] = math.Pi
	}
	var buf bytes.Buffer
	if err := stats.PlotSeriesWithColor(&buf, "Estimate History", []stats.Series{
		{Name: "Estimate", Values: estimates},
		{Name: "π", Values: ref},
	}, stats.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Runs", fmt.Sprintf("%d", s.Runs+s.Failed)),
		metricCard("Failed", fmt.Sprintf("%d", s.Failed)),
		metricCard("Points", fmt.Sprintf("%d", s.Points)),
	}
	if s.Runs > 0 {
		cards = append(cards,
			metricCard("Pooled π", fmt.Sprintf("%.6f", s.Pooled)),
			metricCard("Mean π", fmt.Sprintf("%.6f", s.Mean)),
			metricCard("Best |Error|", fmt.Sprintf("%.6f", stats.AbsError(s.Best.PiEstimate))),
		)
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	if len(cards) == 3 {
		return row1
	}
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newRunTable() table.Model {
	cols, rows := buildRunTableData(nil)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(runTableStyles())
	return t
}

func buildRunTableData(runs []model.RunRecord) ([]table.Column, []table.Row) {
	widths := make([]int, len(stats.RunHeaders))
	for i, h := range stats.RunHeaders {
		widths[i] = runewidth.StringWidth(h)
	}
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		cells := stats.RunRow(run)
		for i, c := range cells {
			widths[i] = maxInt(widths[i], runewidth.StringWidth(c))
		}
		rows = append(rows, table.Row(cells))
	}
	cols := make([]table.Column, len(stats.RunHeaders))
	for i, h := range stats.RunHeaders {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols, rows
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
