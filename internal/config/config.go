package config

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/matheuskafuri/flexigo/internal/catalog"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const defaultRetention = 90 * 24 * time.Hour

type Service struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Icon     string `yaml:"icon,omitempty"`
	Category string `yaml:"category"`
	Promo    bool   `yaml:"promo,omitempty"`
	Favorite bool   `yaml:"favorite,omitempty"`
}

type Config struct {
	DefaultCategory   string    `yaml:"default_category,omitempty"`
	DefaultSort       string    `yaml:"default_sort,omitempty"`
	FeedbackRetention string    `yaml:"feedback_retention,omitempty"`
	LogLevel          string    `yaml:"log_level,omitempty"`
	Services          []Service `yaml:"services"`
}

// Items converts the configured services into catalog items, in file order.
// Call only on a validated config.
func (c *Config) Items() []catalog.Item {
	items := make([]catalog.Item, 0, len(c.Services))
	for _, s := range c.Services {
		cat, _ := catalog.ParseCategory(s.Category)
		items = append(items, catalog.Item{
			ID:       s.ID,
			Name:     s.Name,
			Icon:     s.Icon,
			Category: cat,
			Promo:    s.Promo,
			Favorite: s.Favorite,
		})
	}
	return items
}

// DefaultQuery is the query state the UI starts with.
func (c *Config) DefaultQuery() catalog.QueryState {
	state := catalog.DefaultQueryState()
	if cat, err := catalog.ParseCategory(c.DefaultCategory); err == nil {
		state = state.WithCategory(cat)
	}
	if o, err := catalog.ParseSortOption(c.DefaultSort); err == nil {
		state = state.WithSort(o)
	}
	return state
}

func (c *Config) RetentionDuration() time.Duration {
	if c.FeedbackRetention == "" {
		return defaultRetention
	}
	d, err := ParseDuration(c.FeedbackRetention)
	if err != nil {
		return defaultRetention
	}
	return d
}

func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "flexigo", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "flexigo", "flexigo.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "flexigo", "flexigo.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: best effort, the embedded defaults are enough.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaultServices(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// mergeDefaultServices appends built-in services whose ID the user config
// does not define. User entries always win.
func mergeDefaultServices(cfg, defaults *Config) {
	seen := make(map[int]bool, len(cfg.Services))
	for _, s := range cfg.Services {
		seen[s.ID] = true
	}
	for _, s := range defaults.Services {
		if !seen[s.ID] {
			cfg.Services = append(cfg.Services, s)
		}
	}
}

func validate(cfg *Config) error {
	ids := make(map[int]string, len(cfg.Services))
	for i, s := range cfg.Services {
		if s.Name == "" {
			return fmt.Errorf("service %d: name is required", i)
		}
		if s.ID <= 0 {
			return fmt.Errorf("service %q: id must be positive, got %d", s.Name, s.ID)
		}
		if other, ok := ids[s.ID]; ok {
			return fmt.Errorf("service %q: id %d already used by %q", s.Name, s.ID, other)
		}
		ids[s.ID] = s.Name

		cat, err := catalog.ParseCategory(s.Category)
		if err != nil {
			return fmt.Errorf("service %q: %w", s.Name, err)
		}
		if cat == catalog.All {
			return fmt.Errorf("service %q: category is required and cannot be %q", s.Name, catalog.All)
		}
	}

	if _, err := catalog.ParseCategory(cfg.DefaultCategory); err != nil {
		return fmt.Errorf("default_category: %w", err)
	}
	if _, err := catalog.ParseSortOption(cfg.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if cfg.FeedbackRetention != "" {
		if _, err := ParseDuration(cfg.FeedbackRetention); err != nil {
			return fmt.Errorf("feedback_retention: %w", err)
		}
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ParseDuration accepts "Nd" day syntax in addition to time.ParseDuration.
// Zero and negative durations are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var (
		d   time.Duration
		err error
	)
	if days, aerr := strconv.Atoi(strings.TrimSuffix(s, "d")); aerr == nil && strings.HasSuffix(s, "d") {
		d = time.Duration(days) * 24 * time.Hour
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q (valid: debug, info, warn, error)", s)
}
