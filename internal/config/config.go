// Package config loads flashdeck settings from defaults, a YAML file, .env,
// FLASHDECK_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/source"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: FLASHDECK_LLM__MODEL sets llm.model.
const EnvPrefix = "FLASHDECK_"

// Config is the complete application configuration.
type Config struct {
	// DB is the SQLite database path. Empty resolves to the XDG data dir.
	DB string `koanf:"db"`

	Log      LogConfig      `koanf:"log"`
	LLM      llm.Config     `koanf:"llm"`
	Server   ServerConfig   `koanf:"server"`
	Reminder ReminderConfig `koanf:"reminder"`
	Source   SourceConfig   `koanf:"source"`
	Study    StudyConfig    `koanf:"study"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
	// SessionTTL is how long an API study session may sit idle.
	SessionTTL time.Duration `koanf:"session_ttl" validate:"gt=0"`
}

type ReminderConfig struct {
	// At is the local time of the daily reminder, HH:MM. Empty disables it.
	At string `koanf:"at" validate:"omitempty,datetime=15:04"`
}

type SourceConfig struct {
	ReaderURL string        `koanf:"reader_url" validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
}

type StudyConfig struct {
	// Limit caps the cards per study session. Zero means no cap.
	Limit int `koanf:"limit" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		LLM:      llm.DefaultConfig(),
		Server:   ServerConfig{Addr: "127.0.0.1:8787", SessionTTL: 2 * time.Hour},
		Reminder: ReminderConfig{At: "09:00"},
		Source:   SourceConfig{ReaderURL: source.DefaultReaderURL, Timeout: 30 * time.Second},
		Study:    StudyConfig{Limit: 0},
	}
}

// defaults mirrors Default as flat keys so unchanged flags do not
// override them.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"db":                 d.DB,
		"log.level":          d.Log.Level,
		"log.format":         d.Log.Format,
		"llm.provider":       d.LLM.Provider,
		"llm.model":          d.LLM.Model,
		"llm.api_key":        d.LLM.APIKey,
		"llm.base_url":       d.LLM.BaseURL,
		"llm.max_retries":    d.LLM.MaxRetries,
		"llm.timeout":        d.LLM.Timeout.String(),
		"server.addr":        d.Server.Addr,
		"server.session_ttl": d.Server.SessionTTL.String(),
		"reminder.at":        d.Reminder.At,
		"source.reader_url":  d.Source.ReaderURL,
		"source.timeout":     d.Source.Timeout.String(),
		"study.limit":        d.Study.Limit,
	}
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are ignored by Load.
var flagKeys = map[string]string{
	"db":         "db",
	"log-level":  "log.level",
	"log-format": "log.format",
	"provider":   "llm.provider",
	"model":      "llm.model",
	"addr":       "server.addr",
	"remind-at":  "reminder.at",
	"reader-url": "source.reader_url",
	"limit":      "study.limit",
}

// Options control where Load looks for files.
type Options struct {
	// File is the YAML config path. Empty uses DefaultPath, which may be
	// missing.
	File string

	// DotEnv is the .env path. Empty means ".env" in the working directory.
	DotEnv string
}

// Load builds the configuration. flags may be nil.
func Load(flags *pflag.FlagSet, opts Options) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	path := opts.File
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenv, err)
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM = cfg.LLM.Resolve(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/flashdeck/config.yaml, falling back
// to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flashdeck", "config.yaml")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	return v
}

// Validate checks field constraints. LLM settings are checked separately
// by llm.Config.Validate when a command needs a provider.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", key, fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
