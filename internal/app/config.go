package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/webcheck/internal/fetcher"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	"github.com/raysh454/webcheck/internal/store"
	"github.com/raysh454/webcheck/internal/webclient"
)

// Config is the runtime configuration of a monitor: the checks to run and
// the settings of every component they flow through.
type Config struct {
	// ChecksFile names a YAML or JSON file holding a list of checks. Relative
	// paths resolve against the config file's directory. Its checks are
	// appended after the inline ones.
	ChecksFile string `yaml:"checks_file"`

	Checks []model.Check `yaml:"checks"`

	// StrictTasks makes unknown task names a load failure instead of a
	// warning.
	StrictTasks bool `yaml:"strict_tasks"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ListenAddr is where `serve` binds the HTTP API.
	ListenAddr string `yaml:"listen_addr"`

	WebClient webclient.Config `yaml:"webclient"`
	Fetcher   fetcher.Config   `yaml:"fetcher"`
	Store     store.Config     `yaml:"store"`
}

// DefaultConfig returns a Config populated with development defaults and no
// checks.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		ListenAddr: ":8080",
		WebClient:  webclient.DefaultConfig(),
		Fetcher:    fetcher.DefaultConfig(),
		Store:      store.DefaultConfig(),
	}
}

// LoadConfig reads the YAML (or JSON) config at path over the defaults,
// pulls in the checks file if one is named and prepares the checks.
func LoadConfig(path string, logger logging.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.ChecksFile != "" {
		checksPath := cfg.ChecksFile
		if !filepath.IsAbs(checksPath) {
			checksPath = filepath.Join(filepath.Dir(path), checksPath)
		}
		checks, err := LoadChecks(checksPath)
		if err != nil {
			return nil, err
		}
		cfg.Checks = append(cfg.Checks, checks...)
	}

	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}

	cfg.applyDefaults()
	if err := cfg.Prepare(logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadChecks reads a list of checks from a YAML or JSON file. The file may
// hold a bare list or a mapping with a `checks` key.
func LoadChecks(path string) ([]model.Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checks file: %w", err)
	}

	var list []model.Check
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Checks []model.Check `yaml:"checks"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing checks file %s: %w", path, err)
	}
	return wrapped.Checks, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.WebClient.Client == "" {
		c.WebClient.Client = def.WebClient.Client
	}
	if c.WebClient.Timeout <= 0 {
		c.WebClient.Timeout = def.WebClient.Timeout
	}
	if c.Fetcher.MaxConcurrency <= 0 {
		c.Fetcher.MaxConcurrency = def.Fetcher.MaxConcurrency
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}
}

// Prepare normalizes and validates every check, rejecting duplicate ids.
// Unknown task names are reported on logger, or rejected with StrictTasks.
func (c *Config) Prepare(logger logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}

	seen := make(map[string]int, len(c.Checks))
	var errs []error
	for i := range c.Checks {
		check := &c.Checks[i]
		check.Normalize()

		if err := check.Validate(c.StrictTasks); err != nil {
			errs = append(errs, fmt.Errorf("check #%d: %w", i+1, err))
			continue
		}
		if prev, dup := seen[check.ID]; dup {
			errs = append(errs, fmt.Errorf("check #%d: %w: duplicate id %q (first used by check #%d)",
				i+1, model.ErrInvalidCheck, check.ID, prev+1))
			continue
		}
		seen[check.ID] = i

		for _, task := range check.UnknownTasks() {
			logger.Warn("unknown task will be skipped",
				logging.Field{Key: "check", Value: check.ID},
				logging.Field{Key: "task", Value: string(task)})
		}
	}
	return errors.Join(errs...)
}

// Level maps LogLevel onto a logging.Level, defaulting to info.
func (c *Config) Level() logging.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	}
	return logging.LevelInfo
}
