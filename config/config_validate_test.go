package config

import (
	"path/filepath"
	"os"
	"testing"
)

// validTestConfig returns a config that passes validation, rooted in a
// temporary directory.
func validTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Static.RootDir = t.TempDir()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validTestConfig(t)
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() on defaults failed: %v", err)
	}
	if cfg.Static.ImmutableRe() == nil {
		t.Errorf("Validate() did not compile the default immutable pattern")
	}
}

func TestValidate_Static(t *testing.T) {
	missingDir := filepath.Join(os.TempDir(), "alabaster-does-not-exist")

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"missing root dir", func(c *Config) { c.Static.RootDir = missingDir }, true},
		{"empty root dir", func(c *Config) { c.Static.RootDir = "" }, true},
		{"root is a file", func(c *Config) {
			f := filepath.Join(c.Static.RootDir, "plain")
			if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
				panic(err)
			}
			c.Static.RootDir = f
		}, true},
		{"bad index mode", func(c *Config) { c.Static.IndexMode = "sometimes" }, true},
		{"lazy mode", func(c *Config) { c.Static.IndexMode = IndexModeLazy }, false},
		{"negative max age", func(c *Config) { c.Static.MaxAge.Duration = -1 }, true},
		{"bad immutable pattern", func(c *Config) { c.Static.ImmutablePattern = "([" }, true},
		{"empty immutable pattern", func(c *Config) { c.Static.ImmutablePattern = "" }, false},
		{"prefix without slash", func(c *Config) { c.Static.URLPrefix = "static" }, true},
		{"prefix with trailing slash", func(c *Config) { c.Static.URLPrefix = "/static/" }, true},
		{"good prefix", func(c *Config) { c.Static.URLPrefix = "/static" }, false},
		{"media type without dot", func(c *Config) {
			c.Static.MediaTypes = map[string]string{"map": "application/json"}
		}, true},
		{"media type with dot", func(c *Config) {
			c.Static.MediaTypes = map[string]string{".map": "application/json"}
		}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tc.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_Server(t *testing.T) {
	testCases := []struct {
		name     string
		addr     string
		wantErr  bool
		wantAddr string
	}{
		{"port only", ":8080", false, "localhost:8080"},
		{"host and port", "127.0.0.1:8080", false, "127.0.0.1:8080"},
		{"empty", "", true, ""},
		{"no port", "example.com", true, ""},
		{"bad port", ":notaport", true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			cfg.Server.Addr = tc.addr
			err := Validate(cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && cfg.Server.Addr != tc.wantAddr {
				t.Errorf("Validate() normalized addr = %q, want %q", cfg.Server.Addr, tc.wantAddr)
			}
		})
	}
}

func TestValidate_HotAssets(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.HotAssets.Activated = true
	cfg.HotAssets.Level = "extreme"
	if err := Validate(cfg); err == nil {
		t.Errorf("Validate() accepted unknown hot_assets level")
	}

	cfg.HotAssets.Level = "high"
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() rejected valid hot_assets level: %v", err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	dir := t.TempDir()

	content := `
[static]
root_dir = "` + root + `"
url_prefix = "/assets"
max_age = "120s"
index_mode = "lazy"

[static.media_types]
".map" = "application/json"

[server]
addr = ":9999"
`
	path := filepath.Join(dir, "alabaster.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Static.URLPrefix != "/assets" {
		t.Errorf("URLPrefix = %q, want %q", cfg.Static.URLPrefix, "/assets")
	}
	if cfg.Static.IndexMode != IndexModeLazy {
		t.Errorf("IndexMode = %q, want %q", cfg.Static.IndexMode, IndexModeLazy)
	}
	if got := cfg.Static.MaxAge.Duration.Seconds(); got != 120 {
		t.Errorf("MaxAge = %v seconds, want 120", got)
	}
	if cfg.Server.Addr != "localhost:9999" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, "localhost:9999")
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("Load() of missing file did not fail")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("static = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Errorf("Load() of malformed TOML did not fail")
	}
}
