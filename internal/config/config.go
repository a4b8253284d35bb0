package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/medwatch/internal/constants"
)

const envPrefix = "MEDWATCH_"

// Background wake capability modes
const (
	CapabilityAuto = "auto"
	CapabilityOn   = "on"
	CapabilityOff  = "off"
)

type Config struct {
	Store    StoreConfig    `koanf:"store"`
	Remote   RemoteConfig   `koanf:"remote"`
	Reminder ReminderConfig `koanf:"reminder"`
	Wake     WakeConfig     `koanf:"wake"`
	Notify   NotifyConfig   `koanf:"notify"`
	Platform PlatformConfig `koanf:"platform"`
	Log      LogConfig      `koanf:"log"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type RemoteConfig struct {
	DSN     string `koanf:"dsn"` // Must not embed a password; see keyring
	Channel string `koanf:"channel"`
}

type ReminderConfig struct {
	WindowStart string `koanf:"window_start"` // HH:MM, inclusive
	WindowEnd   string `koanf:"window_end"`   // HH:MM, inclusive
	FallbackAt  string `koanf:"fallback_at"`  // HH:MM fire time of the foreground timer
}

type WakeConfig struct {
	Capability  string        `koanf:"capability"` // auto, on, off
	MinInterval time.Duration `koanf:"min_interval"`
	Poll        time.Duration `koanf:"poll"`
}

type NotifyConfig struct {
	Tray       bool          `koanf:"tray"`
	URLs       []string      `koanf:"urls"` // shoutrrr service URLs
	Permission string        `koanf:"permission"`
	Timeout    time.Duration `koanf:"timeout"`
}

type PlatformConfig struct {
	InstallDir string `koanf:"install_dir"` // Empty means any non-temporary location counts as installed
}

type LogConfig struct {
	Debug bool `koanf:"debug"`
}

// Load builds the configuration from defaults, an optional YAML file and MEDWATCH_* environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = ExpandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Path = ExpandPath(cfg.Store.Path)
	cfg.Platform.InstallDir = ExpandPath(cfg.Platform.InstallDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps MEDWATCH_REMINDER_WINDOW_START to reminder.window_start.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}

	start, err := ParseClock(c.Reminder.WindowStart)
	if err != nil {
		return fmt.Errorf("reminder.window_start: %w", err)
	}
	end, err := ParseClock(c.Reminder.WindowEnd)
	if err != nil {
		return fmt.Errorf("reminder.window_end: %w", err)
	}
	if end < start {
		return fmt.Errorf("reminder window end %s is before start %s", c.Reminder.WindowEnd, c.Reminder.WindowStart)
	}
	if _, err := ParseClock(c.Reminder.FallbackAt); err != nil {
		return fmt.Errorf("reminder.fallback_at: %w", err)
	}

	switch c.Wake.Capability {
	case CapabilityAuto, CapabilityOn, CapabilityOff:
	default:
		return fmt.Errorf("unknown wake.capability: %s (supported: %s, %s, %s)",
			c.Wake.Capability, CapabilityAuto, CapabilityOn, CapabilityOff)
	}
	if c.Wake.MinInterval <= 0 {
		return fmt.Errorf("wake.min_interval must be positive")
	}
	if c.Wake.Poll <= 0 {
		return fmt.Errorf("wake.poll must be positive")
	}
	if span := time.Duration(end-start+1) * time.Minute; c.Wake.Poll > span {
		return fmt.Errorf("wake.poll %s is longer than the reminder window (%s)", c.Wake.Poll, span)
	}

	switch c.Notify.Permission {
	case constants.PermissionGranted, constants.PermissionDenied, constants.PermissionDefault:
	default:
		return fmt.Errorf("unknown notify.permission: %s", c.Notify.Permission)
	}

	return nil
}

// ConfigDir returns the directory holding the store, used for logs and lockfiles.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.Store.Path)
}

// ParseClock parses HH:MM into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
