package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/mcpi/internal/config"
	"github.com/verte-zerg/mcpi/internal/model"
	"github.com/verte-zerg/mcpi/internal/plot"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template to path unless a file exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	s := plot.DefaultStyle()
	return fmt.Sprintf(`# mcpi configuration
# Uncomment a value to enable it. CLI flags override config values.

[run]
# points = %d             # Number of points to generate
# seed = 42                # Fixed seed for reproducible runs
# data-dir = %q         # Artifact directory (overrides $%s)
# parallel = false         # Run estimate and plot concurrently

[plot]
# inside-color = %q
# outside-color = %q
# circle-color = %q
# axis-bound = %.2f
# dpi = %d
# title = %q
# x-label = %q
# y-label = %q
# annotation-format = %q
# point-alpha = %.1f
# point-radius = %.1f
# size = %.0f              # Canvas edge in inches
`,
		model.DefaultPoints,
		config.DefaultDataDir,
		config.DataDirEnv,
		s.InsideColor,
		s.OutsideColor,
		s.CircleColor,
		s.AxisBound,
		s.DPI,
		s.Title,
		s.XLabel,
		s.YLabel,
		s.AnnotationFormat,
		s.PointAlpha,
		s.PointRadius,
		s.Size,
	)
}
