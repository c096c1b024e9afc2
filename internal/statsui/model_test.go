package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mcpi.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func seedRuns(t *testing.T, st *store.Store) []int64 {
	t.Helper()
	seed := int64(9)
	runs := []model.RunRecord{
		{Points: 100, Seed: &seed, DataDir: "data", Inside: 78, Total: 100, PiEstimate: 3.12, Status: model.StatusOK},
		{Points: 200, DataDir: "data", Inside: 157, Total: 200, PiEstimate: 3.14, Status: model.StatusOK},
		{Points: 0, DataDir: "data", Status: model.StatusFailed, Error: "invalid count"},
	}
	var ids []int64
	for i, run := range runs {
		run.StartedAt = time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		run.EndedAt = run.StartedAt.Add(time.Second)
		id, err := st.InsertRun(context.Background(), run)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestViewShowsOverviewAndRuns(t *testing.T) {
	st := openStore(t)
	ids := seedRuns(t, st)

	m := NewModel(st, 0)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Runs", "Pooled π", "Estimate History"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabRuns {
		t.Fatalf("expected runs tab")
	}
	view = m.View()
	for _, want := range []string{"Started", "Data dir", "invalid count"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in runs view:\n%s", want, view)
		}
	}

	run, ok := m.Selected()
	if !ok || run.ID != ids[2] {
		t.Fatalf("expected newest run selected, got %+v", run)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	run, ok = m.Selected()
	if !ok || run.ID != ids[1] {
		t.Fatalf("expected second newest run after down, got %+v", run)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if run, _ := m.Selected(); run.ID != ids[0] {
		t.Fatalf("expected oldest run at bottom, got %d", run.ID)
	}
}

func TestViewEmptyHistory(t *testing.T) {
	m := NewModel(openStore(t), 5)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := m.View()
	if !strings.Contains(view, "No runs recorded.") || !strings.Contains(view, "last 5 runs") {
		t.Fatalf("unexpected empty view:\n%s", view)
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("expected no selection")
	}
	if lines := strings.Split(view, "\n"); len(lines) != 20 {
		t.Fatalf("expected view to fill 20 rows, got %d", len(lines))
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(openStore(t), 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected line %q", got)
	}
}
