package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/stats"
)

func sampleDetections() []model.Detection {
	return []model.Detection{
		{Point: model.Point{X: 0, Y: 0}, Detected: true},
		{Point: model.Point{X: 2, Y: 2}, Detected: false},
		{Point: model.Point{X: 0.5, Y: 0.5}, Detected: true},
		{Point: model.Point{X: -1, Y: 0}, Detected: true},
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(sampleDetections(), 1.05, false)
	out := m.renderFooter(200)
	if !containsAll(out, []string{"Inside 3 / 4", "π ≈ 3.000000", "|error| 0.141593", "c: convergence", "q: quit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutPoints(t *testing.T) {
	m := NewModel(nil, 1.05, false)
	out := m.renderFooter(200)
	if strings.Contains(out, "π ≈") {
		t.Fatalf("expected no estimate for empty table: %s", out)
	}
	if !strings.Contains(m.View(), "No points to display.") {
		t.Fatalf("expected empty notice")
	}
}

func TestUpdateTogglesAndQuits(t *testing.T) {
	m := NewModel(sampleDetections(), 1.05, false)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if !strings.Contains(m.View(), stats.InsideName) {
		t.Fatalf("expected scatter legend in view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.mode != viewConvergence {
		t.Fatalf("expected convergence view after c")
	}
	view := m.View()
	if !strings.Contains(view, "Running Estimate") || !strings.Contains(view, "c: scatter") {
		t.Fatalf("expected convergence view:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.mode != viewScatter {
		t.Fatalf("expected scatter view after second c")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPlotSize(t *testing.T) {
	w, h := plotSize(80, 100, true)
	if w != stats.PlotWidthFor(80) || h != stats.ScatterHeight(w) {
		t.Fatalf("unexpected unconstrained size %dx%d", w, h)
	}
	w, h = plotSize(80, 10, true)
	if h != 10 || w != 20 {
		t.Fatalf("expected height-limited square plot, got %dx%d", w, h)
	}
	w, h = plotSize(80, 1, false)
	if h != minRows || w != stats.PlotWidthFor(80) {
		t.Fatalf("unexpected series size %dx%d", w, h)
	}
}

func TestFitLine(t *testing.T) {
	if got := fitLine("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := fitLine("abc", 4); got != "abc" {
		t.Fatalf("unexpected fit %q", got)
	}
	if got := fitLine("abc", 0); got != "" {
		t.Fatalf("expected empty line, got %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
