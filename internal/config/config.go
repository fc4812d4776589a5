// Package config holds the run-time settings for the demo. Values come from
// built-in defaults, an optional YAML file, and command-line flags, in that
// order of precedence.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tinyrange/polydemo/internal/mesh"
	"github.com/tinyrange/polydemo/internal/window"
	"gopkg.in/yaml.v3"
)

// The GL context must support VAOs and GLSL 3.30.
const (
	MinGLMajor = 3
	MinGLMinor = 3
)

type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	GL GLConfig `yaml:"gl"`

	Shaders ShaderConfig `yaml:"shaders"`

	// Sides is the initial N-gon side count.
	Sides int `yaml:"sides"`

	// RotationSpeed is the model rotation about Z in radians per second.
	RotationSpeed float32 `yaml:"rotationSpeed"`

	ClearColor [4]float32 `yaml:"clearColor,flow"`

	LogLevel string `yaml:"logLevel"`
}

type GLConfig struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
}

// ShaderConfig names shader files on disk. When both are empty the embedded
// shaders are used.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex,omitempty"`
	Fragment string `yaml:"fragment,omitempty"`
}

func (s ShaderConfig) Embedded() bool {
	return s.Vertex == "" && s.Fragment == ""
}

func Default() Config {
	return Config{
		Title:         "Polygons",
		Width:         900,
		Height:        650,
		GL:            GLConfig{Major: 3, Minor: 3},
		Sides:         mesh.DefaultSides,
		RotationSpeed: 0.15,
		ClearColor:    [4]float32{0.08, 0.08, 0.10, 1.0},
		LogLevel:      "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults. Unknown fields are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that the configuration can start the demo.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.GL.Major < MinGLMajor || (c.GL.Major == MinGLMajor && c.GL.Minor < MinGLMinor) {
		errs = append(errs, fmt.Errorf("OpenGL %d.%d is too old, need at least %d.%d", c.GL.Major, c.GL.Minor, MinGLMajor, MinGLMinor))
	}
	if c.GL.Minor < 0 {
		errs = append(errs, fmt.Errorf("OpenGL minor version %d is negative", c.GL.Minor))
	}
	if c.Sides < mesh.MinSides || c.Sides > mesh.MaxSides {
		errs = append(errs, fmt.Errorf("sides %d outside [%d, %d]", c.Sides, mesh.MinSides, mesh.MaxSides))
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		errs = append(errs, errors.New("set both vertex and fragment shader paths, or neither"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Window returns the window settings.
func (c Config) Window() window.Config {
	return window.Config{
		Title:   c.Title,
		Width:   c.Width,
		Height:  c.Height,
		GLMajor: c.GL.Major,
		GLMinor: c.GL.Minor,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// Flags holds command-line overrides. Register them on a FlagSet with
// RegisterFlags, parse, then call Apply.
type Flags struct {
	fs  *flag.FlagSet
	cfg Config

	ConfigPath string
}

func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, cfg: Default()}
	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.cfg.Title, "title", f.cfg.Title, "window title prefix")
	fs.IntVar(&f.cfg.Width, "width", f.cfg.Width, "window width")
	fs.IntVar(&f.cfg.Height, "height", f.cfg.Height, "window height")
	fs.IntVar(&f.cfg.GL.Major, "gl-major", f.cfg.GL.Major, "OpenGL major version")
	fs.IntVar(&f.cfg.GL.Minor, "gl-minor", f.cfg.GL.Minor, "OpenGL minor version")
	fs.StringVar(&f.cfg.Shaders.Vertex, "vert", "", "vertex shader path (default: embedded)")
	fs.StringVar(&f.cfg.Shaders.Fragment, "frag", "", "fragment shader path (default: embedded)")
	fs.IntVar(&f.cfg.Sides, "sides", f.cfg.Sides, "initial N-gon side count")
	fs.Func("speed", "rotation speed in radians per second", func(s string) error {
		var v float32
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		f.cfg.RotationSpeed = v
		return nil
	})
	fs.StringVar(&f.cfg.LogLevel, "log-level", f.cfg.LogLevel, "log level: debug, info, warn, error")
	return f
}

// Apply copies every flag that was set on the command line onto cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			cfg.Title = f.cfg.Title
		case "width":
			cfg.Width = f.cfg.Width
		case "height":
			cfg.Height = f.cfg.Height
		case "gl-major":
			cfg.GL.Major = f.cfg.GL.Major
		case "gl-minor":
			cfg.GL.Minor = f.cfg.GL.Minor
		case "vert":
			cfg.Shaders.Vertex = f.cfg.Shaders.Vertex
		case "frag":
			cfg.Shaders.Fragment = f.cfg.Shaders.Fragment
		case "sides":
			cfg.Sides = f.cfg.Sides
		case "speed":
			cfg.RotationSpeed = f.cfg.RotationSpeed
		case "log-level":
			cfg.LogLevel = f.cfg.LogLevel
		}
	})
}
