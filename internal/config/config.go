package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default service addresses, matching the ports the backends listen on
const (
	DefaultAuthServiceURL         = "http://localhost:8084/api/v1"
	DefaultTaskServiceURL         = "http://localhost:8082/api/v1"
	DefaultNotificationServiceURL = "http://localhost:8083/api/v1"
	DefaultNotificationLimit      = 50
	DefaultRequestTimeoutSec      = 30
)

// Config holds user preferences and service endpoints
type Config struct {
	// Service endpoints, each overridable independently
	AuthServiceURL         string `yaml:"auth_service_url" json:"auth_service_url"`
	TaskServiceURL         string `yaml:"task_service_url" json:"task_service_url"`
	NotificationServiceURL string `yaml:"notification_service_url" json:"notification_service_url"`

	NotificationLimit int  `yaml:"notification_limit" json:"notification_limit"`
	RequestTimeoutSec int  `yaml:"request_timeout_sec" json:"request_timeout_sec"`
	TaskNotifications bool `yaml:"task_notifications" json:"task_notifications"` // Create a companion notification for each new task
	ConfirmDelete     bool `yaml:"confirm_delete" json:"confirm_delete"`         // Require confirmation for delete

	// StatePath is the sqlite file holding the persisted session
	StatePath string `yaml:"state_path" json:"state_path"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.taskboard
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskboard"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath, statePath := "", ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "taskboard.log")
		statePath = filepath.Join(dir, "state.db")
	}

	return &Config{
		AuthServiceURL:         DefaultAuthServiceURL,
		TaskServiceURL:         DefaultTaskServiceURL,
		NotificationServiceURL: DefaultNotificationServiceURL,
		NotificationLimit:      DefaultNotificationLimit,
		RequestTimeoutSec:      DefaultRequestTimeoutSec,
		TaskNotifications:      true,
		ConfirmDelete:          true,
		StatePath:              statePath,
		LogLevel:               "INFO",
		LogFile:                logPath,
		LogConsole:             false,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// applyEnv overlays TASKBOARD_* environment variables
func (c *Config) applyEnv() {
	c.AuthServiceURL = getEnv("TASKBOARD_AUTH_URL", c.AuthServiceURL)
	c.TaskServiceURL = getEnv("TASKBOARD_TASK_URL", c.TaskServiceURL)
	c.NotificationServiceURL = getEnv("TASKBOARD_NOTIFICATION_URL", c.NotificationServiceURL)
	c.StatePath = getEnv("TASKBOARD_STATE_PATH", c.StatePath)
	c.LogLevel = getEnv("TASKBOARD_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("TASKBOARD_LOG_FILE", c.LogFile)
	if v := os.Getenv("TASKBOARD_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true"
	}
}

// Path returns the config file location (~/.taskboard/config.yaml)
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.taskboard/config.yaml, then applies env overrides
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads config from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *Config) normalize() {
	c.AuthServiceURL = strings.TrimRight(c.AuthServiceURL, "/")
	c.TaskServiceURL = strings.TrimRight(c.TaskServiceURL, "/")
	c.NotificationServiceURL = strings.TrimRight(c.NotificationServiceURL, "/")
	if c.NotificationLimit <= 0 {
		c.NotificationLimit = DefaultNotificationLimit
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
}

// Validate checks that every service URL is set
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"auth_service_url":         c.AuthServiceURL,
		"task_service_url":         c.TaskServiceURL,
		"notification_service_url": c.NotificationServiceURL,
	} {
		if v == "" {
			return fmt.Errorf("config: %s is empty", name)
		}
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("config: %s must be an http(s) URL, got %q", name, v)
		}
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Set updates a single key by its yaml name, used by `taskboard config set`
func (c *Config) Set(key, value string) error {
	switch key {
	case "auth_service_url":
		c.AuthServiceURL = value
	case "task_service_url":
		c.TaskServiceURL = value
	case "notification_service_url":
		c.NotificationServiceURL = value
	case "state_path":
		c.StatePath = value
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "notification_limit", "request_timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", key, err)
		}
		if key == "notification_limit" {
			c.NotificationLimit = n
		} else {
			c.RequestTimeoutSec = n
		}
	case "task_notifications", "confirm_delete", "log_console":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		switch key {
		case "task_notifications":
			c.TaskNotifications = b
		case "confirm_delete":
			c.ConfirmDelete = b
		default:
			c.LogConsole = b
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	c.normalize()
	return c.Validate()
}

// Save saves config to ~/.taskboard/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes config as yaml to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
