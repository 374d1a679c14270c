package config

import (
	"os"
	"path/filepath"
	"testing"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/snap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "READ_TIMEOUT", "WRITE_TIMEOUT", "DB_PATH", "MIGRATIONS_PATH", "CORS_ORIGINS", "EDITOR_CONFIG"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, "data/db/editor.db", cfg.DBPath)
	assert.Equal(t, "migrations/001_init_editor.sql", cfg.MigrationsPath)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, DefaultEditor(), cfg.Editor)
	assert.NoError(t, cfg.Editor.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("READ_TIMEOUT", "not-a-number")
	t.Setenv("WRITE_TIMEOUT", "30")
	t.Setenv("CORS_ORIGINS", " https://plan.example.com, ,http://localhost:5173 ")
	t.Setenv("EDITOR_CONFIG", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, 30, cfg.WriteTimeout)
	assert.Equal(t, []string{"https://plan.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadEditorOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
editor:
  snap_tolerance: 0.5
  snap_strategy: nearest
  reanchor_elements: false
  grid_step: 0.05
`), 0o644))
	t.Setenv("EDITOR_CONFIG", path)

	cfg := Load()
	assert.Equal(t, 0.5, cfg.Editor.SnapTolerance)
	assert.Equal(t, "nearest", cfg.Editor.SnapStrategy)
	assert.False(t, cfg.Editor.Reanchor)
	assert.Equal(t, 0.05, cfg.Editor.GridStep)
	assert.Equal(t, graph.DefaultTolerance, cfg.Editor.AdjacencyTolerance)
}

func TestLoadIgnoresBrokenOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor: [unclosed"), 0o644))
	t.Setenv("EDITOR_CONFIG", path)
	assert.Equal(t, DefaultEditor(), Load().Editor)

	t.Setenv("EDITOR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, DefaultEditor(), Load().Editor)
}

func TestParseEditorValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tolerance", "editor:\n  adjacency_tolerance: 0"},
		{"unknown strategy", "editor:\n  snap_strategy: closest"},
		{"inverted t range", "editor:\n  t_min: 0.9\n  t_max: 0.1"},
		{"negative grid", "editor:\n  grid_step: -1"},
		{"scale range", "editor:\n  min_scale: 10\n  max_scale: 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEditor([]byte(tt.yaml), DefaultEditor())
			assert.Error(t, err)
			assert.Equal(t, DefaultEditor(), got)
		})
	}
}

func TestEditorWiring(t *testing.T) {
	e := DefaultEditor()
	e.SnapStrategy = "nearest"
	e.FreePlacement = true
	e.ImportScale = 0.001

	opts := e.EditorOptions()
	assert.Equal(t, snap.Nearest, opts.Snap.Strategy)
	assert.Equal(t, snap.DefaultMaxDistance, opts.Snap.MaxDistance)
	assert.True(t, opts.FreePlacement)
	assert.True(t, opts.Reanchor)
	assert.Equal(t, 0.01, opts.MinWallLength)
	assert.NotNil(t, opts.NewID)

	s := e.SessionSettings()
	assert.Equal(t, 100, s.HistoryLimit)
	assert.Equal(t, 1200.0, s.ViewportWidth)
	assert.Equal(t, 70.0, s.Fit.Cap)

	assert.Equal(t, graph.DefaultTolerance, e.PersistOptions().Tolerance)
	assert.Equal(t, 0.001, e.ImportOptions().Scale)
}
