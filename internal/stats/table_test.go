package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mcpi/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Run", "π", "Status"}
	rows := [][]string{
		{"1", "3.141600", "ok"},
		{"12", "3.2", "failed"},
	}
	rightAlign := map[int]bool{0: true, 1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if want := "Run" + strings.Repeat(" ", 8) + "π Status"; lines[0] != want {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "  1 3.141600 ok" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if want := " 12" + strings.Repeat(" ", 6) + "3.2 failed"; lines[2] != want {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderRuns(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRuns(&buf, nil); err != nil {
		t.Fatalf("RenderRuns failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No runs recorded." {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}

	seed := int64(7)
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []model.RunRecord{
		{ID: 1, StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond), Points: 4, Seed: &seed,
			Inside: 3, Total: 4, PiEstimate: 3, Status: model.StatusOK},
		{ID: 2, StartedAt: start, EndedAt: start, Points: 0, Status: model.StatusFailed, Error: "boom"},
	}
	buf.Reset()
	if err := RenderRuns(&buf, runs); err != nil {
		t.Fatalf("RenderRuns failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "Status") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "3.000000") || !strings.Contains(lines[1], "1.5s") || !strings.Contains(lines[1], " 7 ") {
		t.Fatalf("unexpected ok row: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "failed") {
		t.Fatalf("unexpected failed row: %q", lines[2])
	}
}

func TestRunRowMissingSeed(t *testing.T) {
	row := RunRow(model.RunRecord{ID: 3, Status: model.StatusFailed})
	if len(row) != len(RunHeaders) {
		t.Fatalf("expected %d cells, got %d", len(RunHeaders), len(row))
	}
	if row[3] != "-" || row[5] != "-" {
		t.Fatalf("expected placeholders for seed and estimate, got %v", row)
	}
}
