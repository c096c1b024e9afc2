// Package tui provides the Bubble Tea preview of a flagged point table.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mcpi/internal/estimate"
	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/stats"
)

type viewMode int

const (
	viewScatter viewMode = iota
	viewConvergence
)

// Model implements the Bubble Tea preview UI.
type Model struct {
	detections  []model.Detection
	inside      int
	total       int
	pi          float64
	hasEstimate bool
	bound       float64
	useColor    bool

	width  int
	height int
	mode   viewMode
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs a preview model. bound is the half-width of the square
// viewport in data units.
func NewModel(detections []model.Detection, bound float64, useColor bool) *Model {
	m := &Model{
		detections: detections,
		bound:      bound,
		useColor:   useColor,
	}
	m.inside, m.total = estimate.Count(detections)
	if pi, err := estimate.Pi(detections); err == nil {
		m.pi = pi
		m.hasEstimate = true
	}
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
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "c":
			if m.mode == viewScatter {
				m.mode = viewConvergence
			} else {
				m.mode = viewScatter
			}
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = stats.TerminalWidth(), 24
	}
	// Title, legend and footer each take one row.
	plotW, plotH := plotSize(width, height-3, m.mode == viewScatter)

	var body []string
	title := "Monte Carlo Estimation of π"
	switch {
	case m.total == 0:
		body = []string{emptyStyle.Render("No points to display.")}
	case m.mode == viewConvergence:
		title = "Running Estimate"
		series := stats.ConvergenceSeries(m.detections, plotW)
		body = stats.SeriesLines(series, plotW, plotH, m.useColor)
	default:
		body = stats.ScatterLines(m.detections, plotW, plotH, m.bound, m.useColor)
	}

	content := titleStyle.Render(fitLine(title, width)) + "\n" + strings.Join(body, "\n")
	if height < 3 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := height - 1
	main := lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter(width))
	return main + "\n" + footer
}

func (m *Model) renderFooter(width int) string {
	segments := []string{fmt.Sprintf("Inside %d / %d", m.inside, m.total)}
	if m.hasEstimate {
		segments = append(segments,
			fmt.Sprintf("π ≈ %.6f", m.pi),
			fmt.Sprintf("|error| %.6f", stats.AbsError(m.pi)))
	}
	toggle := "c: convergence"
	if m.mode == viewConvergence {
		toggle = "c: scatter"
	}
	segments = append(segments, toggle, "q: quit")
	return footerStyle.Render(fitLine(strings.Join(segments, " · "), width))
}
