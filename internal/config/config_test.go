package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyrange/polydemo/internal/window"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polydemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 900, cfg.Width)
	assert.Equal(t, 650, cfg.Height)
	assert.Equal(t, GLConfig{Major: 3, Minor: 3}, cfg.GL)
	assert.Equal(t, 8, cfg.Sides)
	assert.Equal(t, float32(0.15), cfg.RotationSpeed)
	assert.True(t, cfg.Shaders.Embedded())
	assert.Equal(t, window.Config{Title: "Polygons", Width: 900, Height: 650, GLMajor: 3, GLMinor: 3}, cfg.Window())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
title: Lab 1
width: 1280
gl:
  major: 4
  minor: 1
shaders:
  vertex: shaders/a.vert
  fragment: shaders/a.frag
sides: 12
clearColor: [0, 0, 0, 1]
logLevel: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Lab 1", cfg.Title)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 650, cfg.Height, "unset fields keep their defaults")
	assert.Equal(t, GLConfig{Major: 4, Minor: 1}, cfg.GL)
	assert.Equal(t, ShaderConfig{Vertex: "shaders/a.vert", Fragment: "shaders/a.frag"}, cfg.Shaders)
	assert.False(t, cfg.Shaders.Embedded())
	assert.Equal(t, 12, cfg.Sides)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.ClearColor)
	assert.Equal(t, float32(0.15), cfg.RotationSpeed)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "widht: 10\n"))
	assert.ErrorContains(t, err, "widht")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "must be positive"},
		{"old GL", func(c *Config) { c.GL = GLConfig{Major: 3, Minor: 2} }, "too old"},
		{"GL 2", func(c *Config) { c.GL = GLConfig{Major: 2, Minor: 1} }, "too old"},
		{"too few sides", func(c *Config) { c.Sides = 2 }, "outside [3, 64]"},
		{"too many sides", func(c *Config) { c.Sides = 65 }, "outside [3, 64]"},
		{"one shader", func(c *Config) { c.Shaders.Vertex = "a.vert" }, "both vertex and fragment"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Width = -1
	cfg.Sides = 100
	err := cfg.Validate()
	assert.ErrorContains(t, err, "must be positive")
	assert.ErrorContains(t, err, "outside")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-width", "640", "-sides", "5", "-speed", "1.5", "-config", "x.yaml"}))

	cfg := Default()
	cfg.Height = 480
	cfg.Title = "from file"
	flags.Apply(&cfg)

	assert.Equal(t, "x.yaml", flags.ConfigPath)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height, "unset flags do not clobber file values")
	assert.Equal(t, "from file", cfg.Title)
	assert.Equal(t, 5, cfg.Sides)
	assert.Equal(t, float32(1.5), cfg.RotationSpeed)
}

func TestFlagsBadSpeed(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(testWriter{t})
	RegisterFlags(fs)
	assert.Error(t, fs.Parse([]string{"-speed", "fast"}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
