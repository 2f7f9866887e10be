package config

import (
	"log/slog"
	"time"
)

// DefaultImmutablePattern matches URL paths carrying a content hash segment
// before the extension: lowercase hex digests (app.3f2a91ab.js) or the
// base32-upper hashes esbuild emits (chunk.QF2EWRTS.css, 8 chars from
// cmd/assetgen). The charsets are deliberately narrow so dotted plain names
// like bootstrap.bundle.js never earn a year-long immutable lifetime.
const DefaultImmutablePattern = `\.([0-9a-f]{8,64}|[0-9A-Z]{8,32})\.[0-9a-zA-Z]+$`

// NewDefaultConfig creates a new Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Static: Static{
			RootDir:          "public/dist",
			URLPrefix:        "",
			ImmutablePattern: DefaultImmutablePattern,
			MaxAge:           Duration{Duration: 60 * time.Second},
			IndexMode:        IndexModeEager,
			MediaTypes:       map[string]string{},
			AllowAllOrigins:  true,
		},
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 5 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Log: Log{
			Access: AccessLog{
				Activated:     false,
				DbPath:        "access.db",
				FlushSize:     100,
				ChanSize:      1000,
				FlushInterval: Duration{Duration: 5 * time.Second},
				Level:         LogLevel{Level: slog.LevelInfo},
			},
		},
		Metrics: Metrics{
			Activated: false,
		},
		HotAssets: HotAssets{
			Activated: false,
			Level:     "medium",
		},
	}
}
