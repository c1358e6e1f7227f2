// Package cliconfig loads the configuration of synapsectl.
//
// Sources are applied in order, later ones winning: the YAML config file,
// a dotenv file, SYNAPSE_PAYMENTS_* environment variables, then command line flags.
package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/synapsepay/go-synapse-client/core"
)

const EnvPrefix = "SYNAPSE_PAYMENTS_"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type Config struct {
	ClientID       string        `yaml:"client_id"`
	ClientSecret   string        `yaml:"client_secret"`
	Sandbox        bool          `yaml:"sandbox"`
	BaseURL        string        `yaml:"base_url,omitempty"`
	Fingerprint    string        `yaml:"fingerprint,omitempty"`
	ClientIP       string        `yaml:"client_ip,omitempty"`
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`
	ReadTimeout    time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout   time.Duration `yaml:"write_timeout,omitempty"`
	Output         string        `yaml:"output"`
	LogFile        string        `yaml:"log_file,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`
	SessionFile    string        `yaml:"session_file,omitempty"`
}

// Dir returns ~/.synapse.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".synapse"
	}
	return filepath.Join(homeDir, ".synapse")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Default() *Config {
	return &Config{
		Sandbox:     true,
		Output:      OutputTable,
		LogLevel:    "info",
		LogFile:     filepath.Join(Dir(), "logs", "synapsectl.log"),
		SessionFile: filepath.Join(Dir(), "session"),
	}
}

// Load reads the YAML config at path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions; it holds the client secret.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadEnvFile exports the variables of a dotenv file without overriding variables
// already set. A missing file is ignored unless it was requested explicitly.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from SYNAPSE_PAYMENTS_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CLIENT_ID":     &c.ClientID,
		"CLIENT_SECRET": &c.ClientSecret,
		"BASE_URL":      &c.BaseURL,
		"FINGERPRINT":   &c.Fingerprint,
		"CLIENT_IP":     &c.ClientIP,
		"OUTPUT":        &c.Output,
		"LOG_FILE":      &c.LogFile,
		"LOG_LEVEL":     &c.LogLevel,
		"SESSION_FILE":  &c.SessionFile,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}
	if v, ok := lookup(EnvPrefix + "SANDBOX"); ok && v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSANDBOX: %w", EnvPrefix, err)
		}
		c.Sandbox = sandbox
	}
	durations := map[string]*time.Duration{
		"CONNECT_TIMEOUT": &c.ConnectTimeout,
		"READ_TIMEOUT":    &c.ReadTimeout,
		"WRITE_TIMEOUT":   &c.WriteTimeout,
	}
	for name, field := range durations {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*field = d
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output %q, expected one of table, json, yaml", c.Output)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("client id and client secret are required (flags, %sCLIENT_ID/%sCLIENT_SECRET or %s)",
			EnvPrefix, EnvPrefix, DefaultPath())
	}
	return nil
}

// SynapseConfig builds the client configuration. Zero timeouts fall back to the client defaults.
func (c *Config) SynapseConfig() *core.SynapseConfig {
	config := &core.SynapseConfig{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Sandbox:      c.Sandbox,
		BaseURL:      c.BaseURL,
		ClientIP:     c.ClientIP,
		RespectProxy: true,
	}
	if c.ConnectTimeout > 0 {
		config.ConnectTimeout = &c.ConnectTimeout
	}
	if c.ReadTimeout > 0 {
		config.ReadTimeout = &c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		config.WriteTimeout = &c.WriteTimeout
	}
	return config
}
