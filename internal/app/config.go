package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"arcview/internal/puzzles"
	"arcview/internal/viewport"
)

const envPrefix = "ARCVIEW_"

// Config controls runtime behavior for the viewer and the server.
type Config struct {
	// DataDir is a local directory of <id>.json documents. Exactly one of
	// DataDir and RemoteURL is used.
	DataDir   string `yaml:"data_dir" env:"DATA_DIR"`
	RemoteURL string `yaml:"remote_url" env:"REMOTE_URL"`
	ListPath  string `yaml:"list_path" env:"LIST_PATH"`

	StartPuzzle string `yaml:"start_puzzle" env:"PUZZLE"`
	Watch       bool   `yaml:"watch" env:"WATCH"`

	History   bool   `yaml:"history" env:"HISTORY"`
	StatePath string `yaml:"state_path" env:"STATE_PATH"`
	LogPath   string `yaml:"log_path" env:"LOG_PATH"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`

	UI     UIConfig     `yaml:"ui" envPrefix:"UI_"`
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
}

type UIConfig struct {
	StyleVariant string `yaml:"style_variant" env:"STYLE"`
	Digits       bool   `yaml:"digits" env:"DIGITS"`
	// MaxCell caps the cell width in terminal columns.
	MaxCell int `yaml:"max_cell" env:"MAX_CELL"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	CacheList       bool          `yaml:"cache_list" env:"CACHE_LIST"`
}

func DefaultConfig() Config {
	return Config{
		ListPath: puzzles.DefaultListPath,
		Watch:    true,
		History:  true,
		LogLevel: "info",
		UI: UIConfig{
			StyleVariant: "studio",
			Digits:       true,
			MaxCell:      4,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
			CacheList:       true,
		},
	}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/arcview/config.yaml, or empty when
// no config directory can be resolved.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "arcview", "config.yaml")
}

// LoadConfig layers defaults, the YAML file at path and ARCVIEW_*
// environment variables. A missing file is only an error when path was
// given explicitly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.RemoteURL = strings.TrimSpace(c.RemoteURL)
	switch {
	case c.DataDir != "" && c.RemoteURL != "":
		return errors.New("data dir and remote url are mutually exclusive")
	case c.RemoteURL != "":
		u, err := url.Parse(c.RemoteURL)
		if err != nil {
			return fmt.Errorf("invalid remote url %q: %w", c.RemoteURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid remote url %q: want http(s)://host", c.RemoteURL)
		}
	case c.DataDir == "":
		c.DataDir = "data"
	}
	if c.ListPath == "" {
		c.ListPath = puzzles.DefaultListPath
	}
	if !strings.HasPrefix(c.ListPath, "/") {
		c.ListPath = "/" + c.ListPath
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	switch c.UI.StyleVariant {
	case "", "studio", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "studio"
	}
	if c.UI.MaxCell <= 0 {
		c.UI.MaxCell = 4
	}
	if c.UI.MaxCell > viewport.DefaultSizer().MaxCell {
		return fmt.Errorf("ui max cell %d exceeds %d", c.UI.MaxCell, viewport.DefaultSizer().MaxCell)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.History && c.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.StatePath = filepath.Join(home, ".local", "share", "arcview", "state.db")
	}
	return nil
}

// Source describes where puzzles come from, for logs and the session row.
func (c Config) Source() string {
	if c.RemoteURL != "" {
		return c.RemoteURL
	}
	return "dir:" + c.DataDir
}

// NewStore builds the puzzle store the config points at.
func NewStore(c Config) puzzles.Store {
	if c.RemoteURL != "" {
		return puzzles.NewHTTPStore(c.RemoteURL, c.ListPath, nil)
	}
	return puzzles.NewFSStore(c.DataDir)
}
