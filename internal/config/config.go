/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible
// way. Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type EditorConfig struct {
	SnapThresholdPx float64 `yaml:"snap_threshold_px"`
	CanvasWidth     float64 `yaml:"canvas_width"`
	CanvasHeight    float64 `yaml:"canvas_height"`
	ZoomMin         float64 `yaml:"zoom_min"`
	ZoomMax         float64 `yaml:"zoom_max"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. The default canvas is A2
// portrait at 96dpi.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Editor: EditorConfig{
			SnapThresholdPx: 5,
			CanvasWidth:     1587,
			CanvasHeight:    2245,
			ZoomMin:         0.1,
			ZoomMax:         8,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn  = "PF_TELEMETRY_OPT_IN"
	EnvSnapThresholdPx = "PF_SNAP_THRESHOLD_PX"
	EnvCanvasWidth     = "PF_CANVAS_WIDTH"
	EnvCanvasHeight    = "PF_CANVAS_HEIGHT"
	EnvLogLevel        = "PF_LOG_LEVEL"
	EnvLogFormat       = "PF_LOG_FORMAT"
	EnvLogSource       = "PF_LOG_SOURCE"
	EnvLogFile         = "PF_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PosterForge")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PosterForge")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "posterforge")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML, creating the directory if needed.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Editor.SnapThresholdPx > 0 {
		dst.Editor.SnapThresholdPx = src.Editor.SnapThresholdPx
	}
	if src.Editor.CanvasWidth > 0 {
		dst.Editor.CanvasWidth = src.Editor.CanvasWidth
	}
	if src.Editor.CanvasHeight > 0 {
		dst.Editor.CanvasHeight = src.Editor.CanvasHeight
	}
	if src.Editor.ZoomMin > 0 {
		dst.Editor.ZoomMin = src.Editor.ZoomMin
	}
	if src.Editor.ZoomMax > 0 {
		dst.Editor.ZoomMax = src.Editor.ZoomMax
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapThresholdPx)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.Editor.SnapThresholdPx = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCanvasWidth)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.Editor.CanvasWidth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCanvasHeight)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.Editor.CanvasHeight = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EnvOverrideFor returns the env var name if the field is overridden by the
// environment.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.telemetry_opt_in":
		env = EnvTelemetryOptIn
	case "editor.snap_threshold_px":
		env = EnvSnapThresholdPx
	case "editor.canvas_width":
		env = EnvCanvasWidth
	case "editor.canvas_height":
		env = EnvCanvasHeight
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
