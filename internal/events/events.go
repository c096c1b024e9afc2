// Package events reads and writes pipeline artifacts.
package events

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/mcpi/internal/model"
)

// Artifact file names inside the data directory.
const (
	PointsFile   = "events.csv"
	DetectedFile = "events_detected.csv"
	EstimateFile = "pi_estimate.txt"
	PlotFile     = "plot_events.png"
)

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("malformed table")

const (
	colX        = "x"
	colY        = "y"
	colDetected = "detected"
)

// WritePoints stores a point table as CSV with an x,y header.
func WritePoints(path string, points []model.Point) error {
	return WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{colX, colY}); err != nil {
			return err
		}
		for _, p := range points {
			if err := cw.Write([]string{formatFloat(p.X), formatFloat(p.Y)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteDetections stores a flagged point table as CSV with an x,y,detected header.
func WriteDetections(path string, detections []model.Detection) error {
	return WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{colX, colY, colDetected}); err != nil {
			return err
		}
		for _, d := range detections {
			row := []string{formatFloat(d.X), formatFloat(d.Y), strconv.FormatBool(d.Detected)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteEstimate stores the estimate as a single line of text.
func WriteEstimate(path string, pi float64) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, formatFloat(pi))
		return err
	})
}

// ReadPoints loads a point table. Extra columns are ignored.
func ReadPoints(path string) ([]model.Point, error) {
	var points []model.Point
	err := readTable(path, []string{colX, colY}, func(line int, vals []string) error {
		p, err := parsePoint(line, vals[0], vals[1])
		if err != nil {
			return err
		}
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// ReadDetections loads a flagged point table.
func ReadDetections(path string) ([]model.Detection, error) {
	var detections []model.Detection
	err := readTable(path, []string{colX, colY, colDetected}, func(line int, vals []string) error {
		p, err := parsePoint(line, vals[0], vals[1])
		if err != nil {
			return err
		}
		detected, err := strconv.ParseBool(strings.TrimSpace(vals[2]))
		if err != nil {
			return fmt.Errorf("%w: line %d: invalid %s value %q", ErrMalformed, line, colDetected, vals[2])
		}
		detections = append(detections, model.Detection{Point: p, Detected: detected})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detections, nil
}

// ReadEstimate loads an estimate written by WriteEstimate.
func ReadEstimate(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid estimate %q", ErrMalformed, text)
	}
	return v, nil
}

// Exists reports whether an artifact is present at path.
func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func readTable(path string, columns []string, row func(line int, vals []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only table.
			_ = cerr
		}
	}()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: missing header", ErrMalformed)
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	index, err := columnIndex(header, columns)
	if err != nil {
		return err
	}

	vals := make([]string, len(columns))
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		for i, idx := range index {
			if idx >= len(rec) {
				return fmt.Errorf("%w: line %d: missing %s value", ErrMalformed, line, columns[i])
			}
			vals[i] = rec[idx]
		}
		if err := row(line, vals); err != nil {
			return err
		}
	}
}

func columnIndex(header, columns []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}
	index := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
		index[i] = pos
	}
	return index, nil
}

func parsePoint(line int, xs, ys string) (model.Point, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("%w: line %d: non-numeric %s value %q", ErrMalformed, line, colX, xs)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("%w: line %d: non-numeric %s value %q", ErrMalformed, line, colY, ys)
	}
	return model.Point{X: x, Y: y}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteAtomic writes through a temp file in the destination directory so
// readers never observe a partial artifact. Parent directories are created.
func WriteAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
