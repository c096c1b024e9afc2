// Package main provides the CLI entrypoint for mcpi.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mcpi/internal/config"
	"github.com/verte-zerg/mcpi/internal/estimate"
	"github.com/verte-zerg/mcpi/internal/events"
	"github.com/verte-zerg/mcpi/internal/generator"
	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/pipeline"
	"github.com/verte-zerg/mcpi/internal/plot"
	"github.com/verte-zerg/mcpi/internal/printer"
	"github.com/verte-zerg/mcpi/internal/stats"
	"github.com/verte-zerg/mcpi/internal/statsui"
	"github.com/verte-zerg/mcpi/internal/store"
	"github.com/verte-zerg/mcpi/internal/tui"
)

const defaultHistoryLast = 50

var (
	flagPoints   int
	flagSeed     int64
	flagDataDir  string
	flagForce    bool
	flagParallel bool

	runNoHistory bool

	plotOutput string

	previewPlain bool

	historyPlain bool
	historyLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		_ = printer.Stderr().Error("mcpi: "+err.Error(), "", suggestionsFor(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mcpi",
		Short:         "Monte Carlo estimation of π",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipelineCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "artifact directory (default $"+config.DataDirEnv+" or "+config.DefaultDataDir+")")
	rootCmd.PersistentFlags().IntVar(&flagPoints, "points", model.DefaultPoints, "number of points to generate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed for reproducible points (default: time-based)")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline",
		Args:  cobra.NoArgs,
		RunE:  runPipelineCmd,
	}
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagForce, "force", false, "rerun stages even when their outputs exist")
	cmd.Flags().BoolVar(&flagParallel, "parallel", false, "run the estimate and plot stages concurrently")
	cmd.Flags().BoolVar(&runNoHistory, "no-history", false, "do not record the run in the history database")
}

// settings are the resolved inputs shared by every command.
type settings struct {
	run   model.RunConfig
	style plot.Style
	paths pipeline.Paths
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "points", &flagPoints, fileCfg.Run.Points)
	applyBoolConfig(cmd, "parallel", &flagParallel, fileCfg.Run.Parallel)

	dataDir := flagDataDir
	if !cmd.Flags().Changed("data-dir") {
		dataDir = config.EnvDataDir()
		applyStringConfig(cmd, "data-dir", &dataDir, fileCfg.Run.DataDir)
	}
	var seed *int64
	switch {
	case cmd.Flags().Changed("seed"):
		s := flagSeed
		seed = &s
	case fileCfg.Run.Seed != nil:
		s := *fileCfg.Run.Seed
		seed = &s
	}

	style := fileCfg.Plot.Style(plot.DefaultStyle())
	if err := style.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid plot style: %w", err)
	}
	return settings{
		run: model.RunConfig{
			Points:   flagPoints,
			Seed:     seed,
			DataDir:  dataDir,
			Force:    flagForce,
			Parallel: flagParallel,
		},
		style: style,
		paths: pipeline.PathsFor(dataDir),
	}, nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	p := printer.Stderr()
	record := model.RunRecord{
		StartedAt: time.Now().UTC(),
		Points:    s.run.Points,
		Seed:      s.run.Seed,
		DataDir:   s.run.DataDir,
	}

	summary, runErr := runPipeline(cmd.Context(), s, p)
	record.EndedAt = time.Now().UTC()
	if runErr != nil {
		record.Status = model.StatusFailed
		record.Error = runErr.Error()
	} else {
		record.Status = model.StatusOK
		record.Inside = summary.Inside
		record.Total = summary.Total
		record.PiEstimate = summary.PiEstimate
	}
	if !runNoHistory {
		recordRun(cmd.Context(), p, record)
	}
	if runErr != nil {
		return runErr
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Estimated Pi: %s\n", formatEstimate(summary.PiEstimate)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runPipeline(ctx context.Context, s settings, p *printer.Printer) (pipeline.Summary, error) {
	pipe, err := pipeline.New(s.run, s.style)
	if err != nil {
		return pipeline.Summary{}, err
	}
	pipe.Runner.OnStage = func(name string, status pipeline.Status) {
		if status == pipeline.StatusSkipped {
			p.Info("- %s skipped (output exists)", name)
			return
		}
		p.Success("%s", name)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	p.Step("running pipeline in %s", s.run.DataDir)
	summary, err := pipe.Run(ctx)
	if err != nil {
		return summary, err
	}
	p.Info("Inside %d of %d points, plot saved to %s", summary.Inside, summary.Total, pipe.Paths.Plot)
	return summary, nil
}

func recordRun(ctx context.Context, p *printer.Printer, record model.RunRecord) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		p.Warning("failed to open history db: %v", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			p.Warning("failed to close history db: %v", cerr)
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := st.InsertRun(ctx, record); err != nil {
		p.Warning("failed to record run: %v", err)
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the point table",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.run.Points <= 0 {
		return fmt.Errorf("%w: got %d", generator.ErrInvalidCount, s.run.Points)
	}
	gen := generator.New()
	if s.run.Seed != nil {
		gen = generator.NewSeeded(*s.run.Seed)
	}
	if err := pipeline.Generate(gen, s.run.Points, s.paths.Points); err != nil {
		return fmt.Errorf("failed to generate points: %w", err)
	}
	printer.Stderr().Success("Generated %d events and saved to %s", s.run.Points, s.paths.Points)
	return nil
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Flag points inside the unit circle",
		Args:  cobra.NoArgs,
		RunE:  runDetectCmd,
	}
}

func runDetectCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := pipeline.Detect(s.paths.Points, s.paths.Detected); err != nil {
		return fmt.Errorf("failed to detect points: %w", err)
	}
	printer.Stderr().Success("Tagged events saved to %s", s.paths.Detected)
	return nil
}

func newEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate",
		Short: "Estimate π from the flagged table",
		Args:  cobra.NoArgs,
		RunE:  runEstimateCmd,
	}
}

func runEstimateCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pi, err := pipeline.Estimate(s.paths.Detected, s.paths.Estimate)
	if err != nil {
		return fmt.Errorf("failed to estimate pi: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Estimated Pi: %s\n", formatEstimate(pi)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	printer.Stderr().Success("Estimate saved to %s", s.paths.Estimate)
	return nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the diagnostic scatter plot",
		Args:  cobra.NoArgs,
		RunE:  runPlotCmd,
	}
	cmd.Flags().StringVar(&plotOutput, "output", "", "output image path; the extension selects the format (default <data-dir>/"+events.PlotFile+")")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := s.paths.Plot
	if plotOutput != "" {
		out = plotOutput
	}
	if err := pipeline.Plot(s.paths.Detected, out, s.style); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	printer.Stderr().Success("Plot saved to %s", out)
	return nil
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the flagged table in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPreviewCmd,
	}
	cmd.Flags().BoolVar(&previewPlain, "plain", false, "print a static plot instead of the interactive view")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	detections, err := events.ReadDetections(s.paths.Detected)
	if err != nil {
		return fmt.Errorf("failed to read detections: %w", err)
	}

	out := cmd.OutOrStdout()
	if previewPlain || !isTerminal(out) {
		return renderPlainPreview(cmd, detections, s.style)
	}
	m := tui.NewModel(detections, s.style.AxisBound, os.Getenv("NO_COLOR") == "")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run preview TUI: %w", err)
	}
	return nil
}

func renderPlainPreview(cmd *cobra.Command, detections []model.Detection, style plot.Style) error {
	out := cmd.OutOrStdout()
	width := stats.PlotWidthFor(stats.TerminalWidth())
	useColor := stats.UseColor(out)
	if err := stats.PlotScatter(out, style.Title, detections, width, 0, style.AxisBound, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	pi, err := estimate.Pi(detections)
	if err != nil {
		return err
	}
	series := stats.ConvergenceSeries(detections, width)
	if err := stats.PlotSeriesWithColor(out, "Running Estimate", series, width, 0, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out, plot.Annotation(pi, style)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the interactive view")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to the last N runs (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			printer.Stderr().Warning("failed to close db: %v", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if historyPlain || !isTerminal(out) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		report, err := stats.BuildReport(ctx, st, historyLast)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if err := stats.RenderReport(out, report, stats.TerminalWidth(), stats.UseColor(out)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(st, historyLast)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

// formatEstimate writes the shortest decimal that round-trips, as the estimate artifact does.
func formatEstimate(pi float64) string {
	return strconv.FormatFloat(pi, 'g', -1, 64)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func suggestionsFor(err error) []string {
	switch {
	case errors.Is(err, generator.ErrInvalidCount):
		return []string{"Pass --points with a positive integer."}
	case errors.Is(err, estimate.ErrEmptyTable):
		return []string{"Regenerate the point table: mcpi generate --points N"}
	case errors.Is(err, events.ErrMalformed):
		return []string{"Rebuild every artifact: mcpi run --force"}
	case errors.Is(err, os.ErrNotExist):
		return []string{
			"Run the upstream stage first (generate, then detect).",
			"Build every artifact at once: mcpi run",
		}
	default:
		return nil
	}
}
