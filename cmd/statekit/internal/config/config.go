package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/statekit/pkg/animation"
)

// FileName is the optional project configuration file.
const FileName = "statekit.yaml"

// SupportedSchema is the newest configuration schema this build understands.
const SupportedSchema = "v1.1.0"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverYAML   = "yaml"
)

// Config represents the optional statekit.yaml configuration.
type Config struct {
	Schema    string          `yaml:"schema,omitempty"`
	App       AppConfig       `yaml:"app"`
	Store     StoreConfig     `yaml:"store"`
	Theme     ThemeConfig     `yaml:"theme"`
	Animation AnimationConfig `yaml:"animation"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

// ThemeConfig lists the registered themes, first one being the default.
type ThemeConfig struct {
	Key    string   `yaml:"key,omitempty"`
	Themes []string `yaml:"themes,omitempty"`
}

// AnimationConfig configures the animate command.
type AnimationConfig struct {
	Duration time.Duration `yaml:"duration,omitempty"`
	Repeats  int           `yaml:"repeats,omitempty"`
	Reverse  bool          `yaml:"reverse,omitempty"`
	Curve    string        `yaml:"curve,omitempty"`
}

// NamedColor is a theme name resolved to its base color.
type NamedColor struct {
	Name  string
	Color color.RGBA
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	AppName     string
	Schema      string
	StoreDriver string
	StorePath   string
	ThemeKey    string
	Themes      []NamedColor
	Duration    time.Duration
	Repeats     int
	Reverse     bool
	CurveName   string
	Curve       func(float64) float64
}

var curves = map[string]func(float64) float64{
	"linear":      animation.LinearCurve,
	"ease":        animation.Ease,
	"ease-in":     animation.EaseIn,
	"ease-out":    animation.EaseOut,
	"ease-in-out": animation.EaseInOut,
}

var defaultThemes = []string{"steelblue", "seagreen", "tomato"}

// LoadOptional reads statekit.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads statekit.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	schema, err := resolveSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	storePath, err := resolveStorePath(dir, driver, strings.TrimSpace(cfg.Store.Path))
	if err != nil {
		return nil, err
	}

	themeKey := strings.TrimSpace(cfg.Theme.Key)
	if themeKey == "" {
		themeKey = appName + "/theme"
	}

	names := cfg.Theme.Themes
	if len(names) == 0 {
		names = defaultThemes
	}
	themes, err := resolveThemes(names)
	if err != nil {
		return nil, err
	}

	duration := cfg.Animation.Duration
	if duration <= 0 {
		duration = 600 * time.Millisecond
	}
	if cfg.Animation.Repeats < 0 {
		return nil, fmt.Errorf("animation.repeats must not be negative, got %d", cfg.Animation.Repeats)
	}
	curveName := strings.ToLower(strings.TrimSpace(cfg.Animation.Curve))
	if curveName == "" {
		curveName = "ease-in-out"
	}
	curve, ok := curves[curveName]
	if !ok {
		return nil, fmt.Errorf("unknown animation curve %q", cfg.Animation.Curve)
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modulePath,
		AppName:     appName,
		Schema:      schema,
		StoreDriver: driver,
		StorePath:   storePath,
		ThemeKey:    themeKey,
		Themes:      themes,
		Duration:    duration,
		Repeats:     cfg.Animation.Repeats,
		Reverse:     cfg.Animation.Reverse,
		CurveName:   curveName,
		Curve:       curve,
	}, nil
}

// FindProjectRoot walks up from start to the nearest directory holding
// statekit.yaml or go.mod. Without either, start itself is the root.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for cur := dir; ; {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(cur, marker)); err == nil {
				return cur, nil
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir, nil
		}
		cur = parent
	}
}

// modulePath returns the module path from go.mod, or "" when there is none.
func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "statekit_app"
	}
	return base
}

// resolveSchema accepts "1", "1.1" or "v1.1.0" style versions within the
// supported major version.
func resolveSchema(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return SupportedSchema, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid schema version %q", raw)
	}
	if semver.Major(v) != semver.Major(SupportedSchema) {
		return "", fmt.Errorf("schema %s is not supported (want %s.x)", v, semver.Major(SupportedSchema))
	}
	if semver.Compare(v, SupportedSchema) > 0 {
		return "", fmt.Errorf("schema %s is newer than supported %s", v, SupportedSchema)
	}
	return semver.Canonical(v), nil
}

func resolveStorePath(root, driver, path string) (string, error) {
	var def string
	switch driver {
	case DriverMemory:
		return "", nil
	case DriverSQLite:
		def = "state.db"
	case DriverBadger:
		def = "badger"
	case DriverYAML:
		def = "state.yaml"
	default:
		return "", fmt.Errorf("unknown store driver %q (use memory, sqlite, badger or yaml)", driver)
	}
	if path == "" {
		return filepath.Join(root, ".statekit", def), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path, nil
}

func resolveThemes(names []string) ([]NamedColor, error) {
	seen := make(map[string]bool, len(names))
	out := make([]NamedColor, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		c, ok := colornames.Map[name]
		if !ok {
			return nil, fmt.Errorf("unknown theme color %q (use an SVG color name)", raw)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate theme %q", name)
		}
		seen[name] = true
		out = append(out, NamedColor{Name: name, Color: c})
	}
	return out, nil
}

// OverrideDriver switches to driver at its default path under Root.
func (r *Resolved) OverrideDriver(driver string) error {
	driver = strings.ToLower(strings.TrimSpace(driver))
	path, err := resolveStorePath(r.Root, driver, "")
	if err != nil {
		return err
	}
	r.StoreDriver, r.StorePath = driver, path
	return nil
}
