// Package config loads application settings from defaults, an optional
// config file and CHESSPLAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/obslog"
)

// EnvPrefix is prepended to every environment override, e.g. CHESSPLAY_DIFFICULTY.
const EnvPrefix = "CHESSPLAY"

type Config struct {
	Difficulty  string `mapstructure:"difficulty"`
	PlayerColor string `mapstructure:"player_color"`
	Username    string `mapstructure:"username"`
	DataDir     string `mapstructure:"data_dir"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	LogFile     string `mapstructure:"log_file"`
	Seed        int64  `mapstructure:"seed"`
	SquareSize  int    `mapstructure:"square_size"`
	MessagesDir string `mapstructure:"messages_dir"`
}

var defaults = map[string]any{
	"difficulty":   "normal",
	"player_color": "white",
	"username":     "Player",
	"data_dir":     "",
	"log_level":    "info",
	"log_format":   "console",
	"log_file":     "",
	"seed":         0,
	"square_size":  64,
	"messages_dir": "",
}

// Load reads the configuration. cfgPath may be empty, in which case only
// defaults and the environment apply.
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every enumerated setting parses.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Color(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.SquareSize < 16 || c.SquareSize > 256 {
		errs = append(errs, fmt.Errorf("square_size %d out of range [16, 256]", c.SquareSize))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the configured engine difficulty.
func (c *Config) Level() (engine.Difficulty, error) {
	return engine.ParseDifficulty(c.Difficulty)
}

// Color returns the colour the human plays.
func (c *Config) Color() (board.Color, error) {
	color, ok := board.ParseColor(strings.TrimSpace(c.PlayerColor))
	if !ok {
		return board.NoColor, fmt.Errorf("unknown player color %q", c.PlayerColor)
	}
	return color, nil
}

// LogOptions returns the logger settings for obslog.New.
func (c *Config) LogOptions() obslog.Options {
	return obslog.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		File:   c.LogFile,
	}
}
