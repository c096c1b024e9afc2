// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/mcpi/internal/plot"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Run  RunConfig  `toml:"run"`
	Plot PlotConfig `toml:"plot"`
}

// RunConfig maps pipeline settings.
type RunConfig struct {
	Points   *int    `toml:"points"`
	Seed     *int64  `toml:"seed"`
	DataDir  *string `toml:"data-dir"`
	Parallel *bool   `toml:"parallel"`
}

// PlotConfig maps plot style overrides.
type PlotConfig struct {
	InsideColor      *string  `toml:"inside-color"`
	OutsideColor     *string  `toml:"outside-color"`
	CircleColor      *string  `toml:"circle-color"`
	AxisBound        *float64 `toml:"axis-bound"`
	DPI              *int     `toml:"dpi"`
	Title            *string  `toml:"title"`
	XLabel           *string  `toml:"x-label"`
	YLabel           *string  `toml:"y-label"`
	AnnotationFormat *string  `toml:"annotation-format"`
	PointAlpha       *float64 `toml:"point-alpha"`
	PointRadius      *float64 `toml:"point-radius"`
	Size             *float64 `toml:"size"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Style applies the overrides on top of base.
func (c PlotConfig) Style(base plot.Style) plot.Style {
	setString(&base.InsideColor, c.InsideColor)
	setString(&base.OutsideColor, c.OutsideColor)
	setString(&base.CircleColor, c.CircleColor)
	setString(&base.Title, c.Title)
	setString(&base.XLabel, c.XLabel)
	setString(&base.YLabel, c.YLabel)
	setString(&base.AnnotationFormat, c.AnnotationFormat)
	setFloat(&base.AxisBound, c.AxisBound)
	setFloat(&base.PointAlpha, c.PointAlpha)
	setFloat(&base.PointRadius, c.PointRadius)
	setFloat(&base.Size, c.Size)
	if c.DPI != nil {
		base.DPI = *c.DPI
	}
	return base
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}
