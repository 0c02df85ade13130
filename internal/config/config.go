package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxUploadMB caps multipart request bodies.
	MaxUploadMB int `toml:"max_upload_mb"`
	// AllowRemoteFetch lets clients pass portrait_url and mask_url, which
	// the server downloads. Off by default.
	AllowRemoteFetch bool `toml:"allow_remote_fetch"`
}

type AssetsConfig struct {
	Dir       string `toml:"dir"`
	Catalogue string `toml:"catalogue"` // empty = built-in catalogue
	Watch     bool   `toml:"watch"`
	Debounce  int    `toml:"debounce_ms"`
}

func (a AssetsConfig) DebounceDuration() time.Duration {
	if a.Debounce > 0 {
		return time.Duration(a.Debounce) * time.Millisecond
	}
	return 300 * time.Millisecond
}

type RenderConfig struct {
	Filter string `toml:"filter"`
	// Workers is the number of compositions that may run at once; each
	// holds one scratch set from the pool.
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Server ServerConfig `toml:"server"`
	Assets AssetsConfig `toml:"assets"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", MaxUploadMB: 32},
		Assets: AssetsConfig{Dir: "frames", Watch: true},
		Render: RenderConfig{Filter: "lanczos", Workers: 2},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// PORT in the environment overrides the listen address.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Render.Workers < 1 {
		return fmt.Errorf("render.workers must be at least 1, got %d", c.Render.Workers)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewLogger builds the process logger described by the [log] section.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
