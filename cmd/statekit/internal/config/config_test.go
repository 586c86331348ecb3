package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/acme/lamp/v2\n\ngo 1.24\n")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.AppName != "lamp" {
		t.Errorf("AppName = %q, want lamp", cfg.AppName)
	}
	if cfg.ThemeKey != "lamp/theme" {
		t.Errorf("ThemeKey = %q", cfg.ThemeKey)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.StorePath != filepath.Join(dir, ".statekit", "state.db") {
		t.Errorf("store = %s %s", cfg.StoreDriver, cfg.StorePath)
	}
	if cfg.Schema != SupportedSchema {
		t.Errorf("Schema = %q", cfg.Schema)
	}
	if len(cfg.Themes) != 3 || cfg.Themes[0].Name != "steelblue" {
		t.Errorf("Themes = %v", cfg.Themes)
	}
	if cfg.Duration != 600*time.Millisecond || cfg.CurveName != "ease-in-out" || cfg.Curve == nil {
		t.Errorf("animation = %v %q", cfg.Duration, cfg.CurveName)
	}
}

func TestResolve_NoGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nightlight")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModulePath != "" || cfg.AppName != "nightlight" {
		t.Errorf("module=%q app=%q", cfg.ModulePath, cfg.AppName)
	}
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
schema: "1.0"
app:
  name: desk
store:
  driver: YAML
  path: data/state.yaml
theme:
  key: prefs.theme
  themes: [Tomato, navy]
animation:
  duration: 250ms
  repeats: 3
  reverse: true
  curve: linear
`)

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.AppName != "desk" || cfg.Schema != "v1.0.0" {
		t.Errorf("app=%q schema=%q", cfg.AppName, cfg.Schema)
	}
	if cfg.StoreDriver != DriverYAML || cfg.StorePath != filepath.Join(dir, "data", "state.yaml") {
		t.Errorf("store = %s %s", cfg.StoreDriver, cfg.StorePath)
	}
	if cfg.ThemeKey != "prefs.theme" {
		t.Errorf("ThemeKey = %q", cfg.ThemeKey)
	}
	if len(cfg.Themes) != 2 || cfg.Themes[0].Name != "tomato" || cfg.Themes[1].Color.B != 128 {
		t.Errorf("Themes = %+v", cfg.Themes)
	}
	if cfg.Duration != 250*time.Millisecond || cfg.Repeats != 3 || !cfg.Reverse || cfg.CurveName != "linear" {
		t.Errorf("animation = %+v", cfg)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "app: [", "failed to parse"},
		{"bad schema", "schema: banana", "invalid schema"},
		{"future major", "schema: v2.0.0", "not supported"},
		{"future minor", "schema: v1.9.0", "newer than supported"},
		{"bad driver", "store: {driver: etcd}", "unknown store driver"},
		{"bad color", "theme: {themes: [notacolor]}", "unknown theme color"},
		{"duplicate color", "theme: {themes: [red, Red]}", "duplicate theme"},
		{"negative repeats", "animation: {repeats: -1}", "must not be negative"},
		{"bad curve", "animation: {curve: wobble}", "unknown animation curve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			_, err := Resolve(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Resolve() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestOpenStore_Drivers(t *testing.T) {
	for _, driver := range []string{DriverMemory, DriverSQLite, DriverBadger, DriverYAML} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, "store: {driver: "+driver+"}")
			cfg, err := Resolve(dir)
			if err != nil {
				t.Fatal(err)
			}

			b, err := cfg.OpenStore(nil)
			if err != nil {
				t.Fatalf("OpenStore() error = %v", err)
			}
			defer b.Close()

			ctx := context.Background()
			if err := b.Store.Set(ctx, "k", "v"); err != nil {
				t.Fatal(err)
			}
			got, ok, err := b.Store.Get(ctx, "k")
			if err != nil || !ok || got != "v" {
				t.Errorf("Get() = %q, %v, %v", got, ok, err)
			}
			if (b.File != nil) != (driver == DriverYAML) {
				t.Errorf("File set = %v for %s", b.File != nil, driver)
			}
		})
	}
}
