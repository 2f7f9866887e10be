package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
)

// Validate checks the configuration and compiles derived state (the
// immutable pattern). It must run before the config is handed to a Provider.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateStatic(&cfg.Static); err != nil {
		return fmt.Errorf("static config validation failed: %w", err)
	}
	if err := validateHotAssets(&cfg.HotAssets); err != nil {
		return fmt.Errorf("hot_assets config validation failed: %w", err)
	}
	return nil
}

// validateServer checks the Server configuration section.
// It ensures the Addr field is not empty and contains a valid host:port or
// :port format. If only a port is provided (e.g. ":8080"), the host defaults
// to "localhost".
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
	}

	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	// SplitHostPort accepts ":8080" with an empty host; default it so the
	// normalized Addr is always host:port.
	if host == "" {
		host = "localhost"
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	return nil
}

// validateStatic checks the asset serving section. A missing or unreadable
// root directory is a configuration error, never a per-request one.
func validateStatic(static *Static) error {
	if static.RootDir == "" {
		return fmt.Errorf("root_dir cannot be empty")
	}

	info, err := os.Stat(static.RootDir)
	if err != nil {
		return fmt.Errorf("root_dir '%s' is not accessible: %w", static.RootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root_dir '%s' is not a directory", static.RootDir)
	}

	switch static.IndexMode {
	case IndexModeEager, IndexModeLazy:
	default:
		return fmt.Errorf("index_mode must be %q or %q, got %q",
			IndexModeEager, IndexModeLazy, static.IndexMode)
	}

	if static.MaxAge.Duration < 0 {
		return fmt.Errorf("max_age cannot be negative")
	}

	if p := static.URLPrefix; p != "" {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("url_prefix '%s' must start with '/'", p)
		}
		if strings.HasSuffix(p, "/") {
			return fmt.Errorf("url_prefix '%s' must not end with '/'", p)
		}
	}

	if static.ImmutablePattern != "" {
		re, err := regexp.Compile(static.ImmutablePattern)
		if err != nil {
			return fmt.Errorf("immutable_pattern '%s' is not a valid regexp: %w",
				static.ImmutablePattern, err)
		}
		static.immutableRe = re
	}

	for ext := range static.MediaTypes {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("media_types key '%s' must start with '.'", ext)
		}
	}

	return nil
}

func validateHotAssets(ha *HotAssets) error {
	if !ha.Activated {
		return nil
	}
	switch ha.Level {
	case "low", "medium", "high":
		return nil
	}
	return fmt.Errorf("level must be low, medium or high, got %q", ha.Level)
}
