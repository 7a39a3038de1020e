package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filmneg.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
path: `+dir+`
shrink_ratio: 0.85
format: jpg
quality: 92
workers: 4
decoder:
  command: dcraw_emu
  args: ["-T", "-Z", "-"]
preview:
  thumbnails: true
  dir: /tmp/previews
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Path != dir || cfg.ShrinkRatio != 0.85 || cfg.Format != "jpg" || cfg.Quality != 92 || cfg.Workers != 4 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Suffix != ".ARW" {
		t.Errorf("suffix default lost: %q", cfg.Suffix)
	}
	if cfg.Decoder.Command != "dcraw_emu" || len(cfg.Decoder.Args) != 3 {
		t.Errorf("decoder = %+v", cfg.Decoder)
	}
	if cfg.Preview.Size != 512 {
		t.Errorf("preview size default lost: %d", cfg.Preview.Size)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	if _, err := Load(writeConfig(t, "shrink_ratio: [1, 2")); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := writeConfig(t, "")

	cases := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"no path", func(c *Config) { c.Path = "" }, "path is required"},
		{"path is file", func(c *Config) { c.Path = file }, "not a directory"},
		{"zero ratio", func(c *Config) { c.ShrinkRatio = 0 }, "shrink_ratio"},
		{"ratio above one", func(c *Config) { c.ShrinkRatio = 1.2 }, "shrink_ratio"},
		{"bad format", func(c *Config) { c.Format = "gif" }, "unknown output format"},
		{"quality", func(c *Config) { c.Quality = 101 }, "quality"},
		{"no suffix", func(c *Config) { c.Suffix = "" }, "suffix"},
		{"thumbnails without dir", func(c *Config) { c.Preview.Thumbnails = true }, "preview.dir"},
		{"workers defaulted", func(c *Config) { c.Workers = 0 }, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			cfg.Path = dir
			c.modify(cfg)

			err := Validate(cfg)
			if c.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Workers < 1 {
					t.Errorf("workers = %d after Validate", cfg.Workers)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.errMsg) {
				t.Errorf("got %v, want error containing %q", err, c.errMsg)
			}
		})
	}
}
