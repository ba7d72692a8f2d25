// Package config loads folio settings from defaults, an optional YAML file,
// .env and FOLIO_-prefixed environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zachkp/folio/internal/reveal"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/typewriter"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds every tunable of the server and the terminal client.
type Config struct {
	Addr      string `mapstructure:"addr"`
	Port      string `mapstructure:"port"`
	DBPath    string `mapstructure:"db-path"`
	ImagesDir string `mapstructure:"images-dir"`
	LogLevel  string `mapstructure:"log-level"`

	DefaultDark     bool          `mapstructure:"default-dark"`
	HideThreshold   float64       `mapstructure:"hide-threshold"`
	SectionMargin   float64       `mapstructure:"section-margin"`
	RevealThreshold float64       `mapstructure:"reveal-threshold"`
	TypeInterval    time.Duration `mapstructure:"type-interval"`
	DeleteInterval  time.Duration `mapstructure:"delete-interval"`
	PauseInterval   time.Duration `mapstructure:"pause-interval"`

	TUIHideThreshold float64 `mapstructure:"tui-hide-threshold"`
	TUISectionMargin float64 `mapstructure:"tui-section-margin"`

	PreferenceRetention time.Duration `mapstructure:"preference-retention"`
}

// ListenAddr resolves the address to bind. A bare PORT, as set by most
// hosting platforms, wins over addr.
func (c Config) ListenAddr() string {
	if c.Port != "" {
		return ":" + c.Port
	}
	return c.Addr
}

// ScrollConfig returns the tracker constants for the web host.
func (c Config) ScrollConfig() scroll.Config {
	return scroll.Config{HideThreshold: c.HideThreshold, Margin: c.SectionMargin}
}

// TUIScrollConfig returns the tracker constants for the terminal host, in
// lines.
func (c Config) TUIScrollConfig() scroll.Config {
	return scroll.Config{HideThreshold: c.TUIHideThreshold, Margin: c.TUISectionMargin}
}

func (c Config) Timing() typewriter.Timing {
	return typewriter.Timing{Type: c.TypeInterval, Delete: c.DeleteInterval, Pause: c.PauseInterval}
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func defaultDBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "folio", "folio.db")
	}
	return "folio.db"
}

func setDefaults(v *viper.Viper) {
	timing := typewriter.DefaultTiming()

	v.SetDefault("addr", ":8080")
	v.SetDefault("port", "")
	v.SetDefault("db-path", defaultDBPath())
	v.SetDefault("images-dir", "./images")
	v.SetDefault("log-level", "info")
	v.SetDefault("default-dark", false)
	v.SetDefault("hide-threshold", scroll.DefaultHideThreshold)
	v.SetDefault("section-margin", scroll.DefaultMargin)
	v.SetDefault("reveal-threshold", reveal.DefaultThreshold)
	v.SetDefault("type-interval", timing.Type)
	v.SetDefault("delete-interval", timing.Delete)
	v.SetDefault("pause-interval", timing.Pause)
	v.SetDefault("tui-hide-threshold", 3)
	v.SetDefault("tui-section-margin", 2)
	v.SetDefault("preference-retention", 365*24*time.Hour)
}

// Load reads configuration. An empty path looks for folio.yml in the working
// directory; a missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// The bare PORT variable predates the FOLIO_ prefix.
	if err := v.BindEnv("port", "FOLIO_PORT", "PORT"); err != nil {
		return cfg, fmt.Errorf("binding PORT: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
