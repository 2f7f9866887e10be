package config

import (
	"log/slog"
	"regexp"
	"time"
)

const (
	// IndexModeEager builds the whole asset index before the server starts
	// accepting requests. Recommended for production: lookups are lock-free
	// reads of an immutable map.
	IndexModeEager = "eager"

	// IndexModeLazy stats files on first request and caches the result.
	// Intended for development, where assets change between requests.
	IndexModeLazy = "lazy"
)

// Duration wraps time.Duration so TOML files can use strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevel wraps slog.Level for TOML ("DEBUG", "INFO", ...).
type LogLevel struct {
	slog.Level
}

type Config struct {
	Static    Static    `toml:"static"`
	Server    Server    `toml:"server"`
	Log       Log       `toml:"log"`
	Metrics   Metrics   `toml:"metrics"`
	HotAssets HotAssets `toml:"hot_assets"`

	// Source is the path the config was loaded from, empty for defaults.
	// Not part of the TOML surface.
	Source string `toml:"-"`
}

// Static configures the asset index and the serving policy.
type Static struct {
	// RootDir is the directory tree to index. Must exist at startup.
	RootDir string `toml:"root_dir"`

	// URLPrefix mounts the assets under a URL prefix ("/static").
	// Requests outside the prefix are delegated to the wrapped application.
	// Empty means the whole URL space.
	URLPrefix string `toml:"url_prefix"`

	// ImmutablePattern is a regexp matched against the URL path. Matching
	// assets are considered content-hashed and get a far-future immutable
	// Cache-Control. Validated at startup.
	ImmutablePattern string `toml:"immutable_pattern"`

	// MaxAge is the Cache-Control lifetime for non-immutable assets.
	// Zero means clients must revalidate on every use.
	MaxAge Duration `toml:"max_age"`

	// IndexMode is "eager" or "lazy".
	IndexMode string `toml:"index_mode"`

	// MediaTypes maps additional file extensions (with leading dot) to
	// media types, extending the built-in table.
	MediaTypes map[string]string `toml:"media_types"`

	// AllowAllOrigins sets "Access-Control-Allow-Origin: *" on every asset.
	// Safe for public static files and needed when they end up behind a CDN
	// on another domain (webfonts in Firefox, for example).
	AllowAllOrigins bool `toml:"allow_all_origins"`

	// immutableRe is the compiled ImmutablePattern, set by Validate.
	immutableRe *regexp.Regexp
}

// ImmutableRe returns the compiled immutable pattern, nil when unset.
// Only valid after Validate has run.
func (s *Static) ImmutableRe() *regexp.Regexp {
	return s.immutableRe
}

type Server struct {
	Addr                    string   `toml:"addr"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}

type Log struct {
	Access AccessLog `toml:"access"`
}

// AccessLog configures the batched request log daemon.
type AccessLog struct {
	Activated     bool     `toml:"activated"`
	DbPath        string   `toml:"db_path"`
	FlushSize     int      `toml:"flush_size"`
	ChanSize      int      `toml:"chan_size"`
	FlushInterval Duration `toml:"flush_interval"`
	Level         LogLevel `toml:"level"`
}

type Metrics struct {
	Activated bool `toml:"activated"`
}

// HotAssets configures the sliding top-k sketch that reports the most
// requested asset paths.
type HotAssets struct {
	Activated bool `toml:"activated"`

	// Level selects a sketch parameter preset: "low", "medium" or "high".
	Level string `toml:"level"`
}
