package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/history"
	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/persist"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/session"
	"floorplan/internal/editor/snap"
	"floorplan/internal/editor/svgimport"
	"floorplan/internal/editor/viewport"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string
	Environment    string
	ReadTimeout    int
	WriteTimeout   int
	DBPath         string
	MigrationsPath string
	CORSOrigins    []string
	Editor         EditorConfig
}

// EditorConfig хранит настройки движка редактора. Длины в метрах,
// размеры вьюпорта в пикселях.
type EditorConfig struct {
	AdjacencyTolerance   float64 `yaml:"adjacency_tolerance"`
	SnapTolerance        float64 `yaml:"snap_tolerance"`
	SnapStrategy         string  `yaml:"snap_strategy"`
	PlacementMaxDistance float64 `yaml:"placement_max_distance"`
	TMin                 float64 `yaml:"t_min"`
	TMax                 float64 `yaml:"t_max"`
	FreePlacement        bool    `yaml:"free_placement"`
	MinWallLength        float64 `yaml:"min_wall_length"`
	GridStep             float64 `yaml:"grid_step"`
	Reanchor             bool    `yaml:"reanchor_elements"`
	HistoryLimit         int     `yaml:"history_limit"`
	DefaultThickness     float64 `yaml:"default_wall_thickness"`
	ViewportWidth        float64 `yaml:"viewport_width"`
	ViewportHeight       float64 `yaml:"viewport_height"`
	MinScale             float64 `yaml:"min_scale"`
	MaxScale             float64 `yaml:"max_scale"`
	FitPadding           float64 `yaml:"fit_padding"`
	FitCap               float64 `yaml:"fit_cap"`
	ImportScale          float64 `yaml:"import_scale"`
}

type fileConfig struct {
	Editor EditorConfig `yaml:"editor"`
}

func DefaultEditor() EditorConfig {
	return EditorConfig{
		AdjacencyTolerance:   graph.DefaultTolerance,
		SnapTolerance:        snap.DefaultPointTolerance,
		SnapStrategy:         "first",
		PlacementMaxDistance: snap.DefaultMaxDistance,
		TMin:                 snap.DefaultTMin,
		TMax:                 snap.DefaultTMax,
		MinWallLength:        0.01,
		Reanchor:             true,
		HistoryLimit:         history.DefaultLimit,
		DefaultThickness:     room.DefaultThickness,
		ViewportWidth:        1200,
		ViewportHeight:       800,
		MinScale:             viewport.DefaultMinScale,
		MaxScale:             viewport.DefaultMaxScale,
		FitPadding:           viewport.DefaultPadding,
		FitCap:               viewport.DefaultFitCap,
		ImportScale:          svgimport.DefaultScale,
	}
}

// Load загружает конфигурацию из переменных окружения.
// Если EDITOR_CONFIG указывает на YAML файл, секция editor перекрывает
// значения по умолчанию. Битый файл пишется в лог и игнорируется.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:         getEnv("DB_PATH", "data/db/editor.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_editor.sql"),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
		Editor:         DefaultEditor(),
	}

	if path := os.Getenv("EDITOR_CONFIG"); path != "" {
		editor, err := LoadEditorFile(path, cfg.Editor)
		if err != nil {
			log.Printf("[CONFIG] ignoring %s: %v", path, err)
		} else {
			cfg.Editor = editor
		}
	}
	return cfg
}

// LoadEditorFile накладывает секцию editor из YAML файла на base.
func LoadEditorFile(path string, base EditorConfig) (EditorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	return ParseEditor(data, base)
}

// ParseEditor накладывает YAML на base. Отсутствующие ключи сохраняют
// значение из base.
func ParseEditor(data []byte, base EditorConfig) (EditorConfig, error) {
	fc := fileConfig{Editor: base}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse editor config: %w", err)
	}
	if err := fc.Editor.Validate(); err != nil {
		return base, err
	}
	return fc.Editor, nil
}

func (e EditorConfig) Validate() error {
	switch {
	case e.AdjacencyTolerance <= 0:
		return errors.New("adjacency_tolerance must be positive")
	case e.SnapTolerance <= 0:
		return errors.New("snap_tolerance must be positive")
	case e.SnapStrategy != "first" && e.SnapStrategy != "nearest":
		return fmt.Errorf("unknown snap_strategy %q", e.SnapStrategy)
	case e.PlacementMaxDistance <= 0:
		return errors.New("placement_max_distance must be positive")
	case e.TMin < 0 || e.TMax > 1 || e.TMin >= e.TMax:
		return fmt.Errorf("t range [%g, %g] is not inside [0, 1]", e.TMin, e.TMax)
	case e.MinWallLength < 0 || e.GridStep < 0:
		return errors.New("min_wall_length and grid_step must not be negative")
	case e.MinScale <= 0 || e.MaxScale < e.MinScale:
		return fmt.Errorf("scale range [%g, %g] is invalid", e.MinScale, e.MaxScale)
	}
	return nil
}

// ============================================================
// Editor wiring
// ============================================================

func (e EditorConfig) SnapOptions() snap.Options {
	return snap.Options{
		PointTolerance: e.SnapTolerance,
		MaxDistance:    e.PlacementMaxDistance,
		TMin:           e.TMin,
		TMax:           e.TMax,
		Strategy:       snap.ParseStrategy(e.SnapStrategy),
	}
}

func (e EditorConfig) EditorOptions() interaction.Options {
	opts := interaction.DefaultOptions()
	opts.AdjacencyTolerance = e.AdjacencyTolerance
	opts.Snap = e.SnapOptions()
	opts.FreePlacement = e.FreePlacement
	opts.MinWallLength = e.MinWallLength
	opts.GridStep = e.GridStep
	opts.Reanchor = e.Reanchor
	if e.DefaultThickness > 0 {
		opts.DefaultThickness = e.DefaultThickness
	}
	return opts
}

func (e EditorConfig) SessionSettings() session.Settings {
	return session.Settings{
		Options:        e.EditorOptions(),
		HistoryLimit:   e.HistoryLimit,
		ViewportWidth:  e.ViewportWidth,
		ViewportHeight: e.ViewportHeight,
		MinScale:       e.MinScale,
		MaxScale:       e.MaxScale,
		Fit:            session.FitSettings{Padding: e.FitPadding, Cap: e.FitCap},
	}
}

func (e EditorConfig) PersistOptions() persist.Options {
	return persist.Options{Tolerance: e.AdjacencyTolerance, Snap: e.SnapOptions()}
}

func (e EditorConfig) ImportOptions() svgimport.Options {
	opts := svgimport.DefaultOptions()
	opts.Tolerance = e.AdjacencyTolerance
	opts.Snap = e.SnapOptions()
	if e.ImportScale > 0 {
		opts.Scale = e.ImportScale
	}
	if e.DefaultThickness > 0 {
		opts.DefaultThickness = e.DefaultThickness
	}
	return opts
}

// ============================================================
// Helpers
// ============================================================

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
