package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./config.yml"

// Config represents the structure of config.yml used by the tool.
// Every field has a default, so the file itself is optional.
type Config struct {
	Server struct {
		Addr  string `yaml:"addr"`
		UIDir string `yaml:"ui_dir"`
	} `yaml:"server"`

	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`

	Upload struct {
		MaxBytes int64 `yaml:"max_bytes"`
	} `yaml:"upload"`

	Ask Ask `yaml:"ask"`
}

// Ask configures the question-answering service.
type Ask struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// APIKey reads the key from the configured environment variable.
func (a Ask) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.UIDir == "" {
		c.Server.UIDir = "./ui/dist"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "./data"
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 32 << 20
	}
	if c.Ask.Endpoint == "" {
		c.Ask.Endpoint = "https://api.openai.com/v1/responses"
	}
	if c.Ask.Model == "" {
		c.Ask.Model = "gpt-5.1"
	}
	if c.Ask.APIKeyEnv == "" {
		c.Ask.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Ask.Timeout <= 0 {
		c.Ask.Timeout = 120 * time.Second
	}
}

// Load parses the YAML configuration file at path and fills in defaults.
// OPENAI_MODEL, when set, overrides ask.model.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.applyDefaults()
	c.applyEnv()
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return &c, nil
}

// Resolve loads the file named by CONFIG_PATH (default ./config.yml).
// A missing file is not an error: the defaults are returned instead.
func Resolve() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config.default", "path", path)
		c = Default()
		c.applyEnv()
		return c, nil
	}
	return c, err
}

func (c *Config) applyEnv() {
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		c.Ask.Model = m
	}
}
