package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxtree.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ContentWidth != 590 || cfg.CharWidth != 8 || cfg.LineHeight != 1.25 || !cfg.RunScripts {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
content_width = 300.0
run_scripts = false
font_path = "/fonts/mono.ttf"
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.ContentWidth = 300
	want.RunScripts = false
	want.FontPath = "/fonts/mono.ttf"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, `content_widht = 10.0`))
	if err == nil || !strings.Contains(err.Error(), "content_widht") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "char_width = 0.0\nline_height = -1.0"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "char_width") || !strings.Contains(err.Error(), "line_height") {
		t.Errorf("expected both fields reported, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "content_width = ")); err == nil {
		t.Error("expected parse error")
	}
}
