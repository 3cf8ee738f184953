// Package config loads the schedulator configuration file.
//
// The file is TOML and every key is optional:
//
//	data_dir = "data"
//
//	[output]
//	table_style = "rounded"
//	show_matrix = false
//	path_limit = 10
//	detailed_dot = false
//
//	[cache]
//	backend = "file"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[analysis]
//	parallel = 0
//
// Command-line flags take precedence over file values.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schedulator/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// TableStyles are the accepted values of output.table_style.
var TableStyles = []string{"rounded", "normal", "thick", "double", "hidden"}

// Config is the parsed configuration file.
type Config struct {
	DataDir  string   `toml:"data_dir"`
	Output   Output   `toml:"output"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Analysis Analysis `toml:"analysis"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Output controls terminal reports and diagrams.
type Output struct {
	TableStyle  string `toml:"table_style"`
	ShowMatrix  bool   `toml:"show_matrix"`
	PathLimit   int    `toml:"path_limit"`
	DetailedDOT bool   `toml:"detailed_dot"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Analysis tunes the scheduler.
type Analysis struct {
	Parallel int `toml:"parallel"`
}

// Duration is a time.Duration that decodes from strings like "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir: "data",
		Output: Output{
			TableStyle: "rounded",
			PathLimit:  10,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/schedulator/config.toml, falling back
// to the platform's user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "schedulator", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schedulator", "config.toml"), nil
}

// Load reads the configuration at path on top of [Default].
//
// An empty path means [DefaultPath]; a missing default file yields the
// defaults. A missing file given explicitly is an error. Unknown keys are
// rejected so typos surface early.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
			}
			return Default(), nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	if !slices.Contains(TableStyles, c.Output.TableStyle) {
		return errors.New(errors.ErrCodeInvalidInput, "output.table_style %q must be one of %s", c.Output.TableStyle, strings.Join(TableStyles, ", "))
	}
	if c.Output.PathLimit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "output.path_limit must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q must be file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Analysis.Parallel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "analysis.parallel must not be negative")
	}
	return nil
}
