package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

type Config struct {
	GapHours        float64 `toml:"gap_hours"        validate:"gt=0"`
	MinPhraseFreq   int     `toml:"min_phrase_freq"  validate:"min=1"`
	MaxNgram        int     `toml:"max_ngram"        validate:"min=2,max=4"`
	TopWords        int     `toml:"top_words"        validate:"min=1"`
	LongestMessages int     `toml:"longest_messages" validate:"min=1"`

	Format    string `toml:"format"     validate:"oneof=text json yaml"`
	ExportDir string `toml:"export_dir"`

	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `toml:"log_file"`
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wau", "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom applies defaults, then the file at path if it exists, then
// validates the result.
func LoadFrom(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	def := stats.DefaultOptions()
	cfg := &Config{
		GapHours:        def.GapHours,
		MinPhraseFreq:   def.MinPhraseFreq,
		MaxNgram:        def.MaxNgram,
		TopWords:        def.TopWords,
		LongestMessages: def.LongestMessages,
		Format:          "text",
		ExportDir:       filepath.Join(home, "Downloads"),
		LogLevel:        "warn",
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// expand ~ in paths
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// StatsOptions maps the config onto statistics options. Limits that are not
// configurable keep their defaults.
func (c *Config) StatsOptions() stats.Options {
	opts := stats.DefaultOptions()
	opts.GapHours = c.GapHours
	opts.MinPhraseFreq = c.MinPhraseFreq
	opts.MaxNgram = c.MaxNgram
	opts.TopWords = c.TopWords
	opts.LongestMessages = c.LongestMessages
	return opts
}

func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
