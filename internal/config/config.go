// Package config loads cstlendar settings from defaults, an optional YAML
// file, and CSTLENDAR_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/graph"
	"github.com/cstcaptive/cstlendar/internal/service"
	"gopkg.in/yaml.v3"
)

const (
	// HomeDir is the per-user directory under $HOME holding the store and config.
	HomeDir = ".cstlendar"
	// ConfigFile is the config file name inside HomeDir.
	ConfigFile = "config.yaml"
	// DBFile is the default store file name inside HomeDir.
	DBFile = "cstlendar.db"
)

type Config struct {
	// DBPath is the SQLite store location. Empty means ~/.cstlendar/cstlendar.db.
	DBPath string            `yaml:"db"`
	Graph  GraphConfig       `yaml:"graph"`
	Log    LogConfig         `yaml:"log"`
	Backup BackupConfig      `yaml:"backup"`
	Week   domain.WeekConfig `yaml:"week"`
}

type GraphConfig struct {
	MaxNodes int    `yaml:"max_nodes"`
	Layout   string `yaml:"layout"`
}

type LogConfig struct {
	// File receives log records. Empty discards them.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type BackupConfig struct {
	Keep int `yaml:"keep"`
}

func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			MaxNodes: graph.DefaultMaxNodes,
			Layout:   string(domain.LayoutDiscovery),
		},
		Log: LogConfig{
			Level: "info",
		},
		Backup: BackupConfig{
			Keep: service.DefaultBackupKeep,
		},
	}
}

// Validate rejects settings the graph builder or backup service cannot use.
func (c *Config) Validate() error {
	if c.Graph.MaxNodes < 1 {
		return fmt.Errorf("graph.max_nodes must be at least 1, got %d", c.Graph.MaxNodes)
	}
	if !domain.ValidLayoutModes[c.Graph.Layout] {
		return fmt.Errorf("graph.layout %q must be discovery or level", c.Graph.Layout)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup.keep must be at least 1, got %d", c.Backup.Keep)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Week.BaseDate != "" {
		if _, err := domain.ParseDate(c.Week.BaseDate); err != nil {
			return fmt.Errorf("week.base_date: %w", err)
		}
	}
	return nil
}

// LayoutMode returns the configured layout as a typed mode.
func (c *Config) LayoutMode() domain.LayoutMode {
	return domain.LayoutMode(c.Graph.Layout)
}

// LoadFromFile decodes path over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load layers the config file (CSTLENDAR_CONFIG or ~/.cstlendar/config.yaml)
// and environment variables over the defaults, then validates the result.
// A missing config file is not an error.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()

	path := os.Getenv("CSTLENDAR_CONFIG")
	explicit := path != ""
	if !explicit && home != "" {
		path = filepath.Join(home, HomeDir, ConfigFile)
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		if home == "" {
			return nil, fmt.Errorf("finding home directory: set CSTLENDAR_DB")
		}
		cfg.DBPath = filepath.Join(home, HomeDir, DBFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CSTLENDAR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CSTLENDAR_MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CSTLENDAR_MAX_NODES: %w", err)
		}
		cfg.Graph.MaxNodes = n
	}
	if v := os.Getenv("CSTLENDAR_LAYOUT"); v != "" {
		cfg.Graph.Layout = strings.ToLower(v)
	}
	if v := os.Getenv("CSTLENDAR_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CSTLENDAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CSTLENDAR_BACKUP_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CSTLENDAR_BACKUP_KEEP: %w", err)
		}
		cfg.Backup.Keep = n
	}
	if v := os.Getenv("CSTLENDAR_WEEK_BASE_DATE"); v != "" {
		cfg.Week.BaseDate = v
	}
	if v := os.Getenv("CSTLENDAR_WEEK_BASE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CSTLENDAR_WEEK_BASE: %w", err)
		}
		cfg.Week.BaseWeek = n
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
	}
	return lvl, nil
}
