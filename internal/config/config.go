package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/sashakarcz/adminpw/internal/passhash"
)

// DefaultPassword is hashed when no configuration file overrides it
const DefaultPassword = "admin123"

// Config represents the complete tool configuration
type Config struct {
	Password      PasswordConfig      `yaml:"password"`
	Target        TargetConfig        `yaml:"target"`
	Observability ObservabilityConfig `yaml:"observability"`
}

var ErrEmptyPassword = errors.New("password.value is set but empty")

// envReference matches a value that is exactly one ${NAME} reference
var envReference = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// PasswordConfig holds the password to hash and the bcrypt work factor.
// ExistingHash, when set, is checked against Value before a new hash is made.
type PasswordConfig struct {
	Value        string `yaml:"value"`
	Cost         int    `yaml:"cost"`
	ExistingHash string `yaml:"existing_hash,omitempty"`
}

// UnmarshalYAML resolves a ${NAME} password reference after decoding, so the
// rest of the value is taken literally. A value that is present in the file
// must not resolve to an empty password.
func (p *PasswordConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Value        *string `yaml:"value"`
		Cost         int     `yaml:"cost"`
		ExistingHash string  `yaml:"existing_hash"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	p.Cost = raw.Cost
	p.ExistingHash = raw.ExistingHash

	if raw.Value == nil {
		return nil
	}

	value := *raw.Value
	if m := envReference.FindStringSubmatch(value); m != nil {
		env, ok := os.LookupEnv(m[1])
		if !ok {
			return fmt.Errorf("password.value: environment variable %s is not set", m[1])
		}
		value = env
	}
	if value == "" {
		return ErrEmptyPassword
	}

	p.Value = value
	return nil
}

// TargetConfig names the row the generated UPDATE statement assigns the hash to
type TargetConfig struct {
	Table     string `yaml:"table"`
	Column    string `yaml:"column"`
	KeyColumn string `yaml:"key_column"`
	KeyValue  string `yaml:"key_value"`
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// Default returns the built-in configuration used when no file is given
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applying defaults and validation
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for optional fields
func (c *Config) setDefaults() {
	if c.Password.Value == "" {
		c.Password.Value = DefaultPassword
	}
	if c.Password.Cost == 0 {
		c.Password.Cost = bcrypt.DefaultCost
	}

	if c.Target.Table == "" {
		c.Target.Table = "users"
	}
	if c.Target.Column == "" {
		c.Target.Column = "password"
	}
	if c.Target.KeyColumn == "" {
		c.Target.KeyColumn = "username"
	}
	if c.Target.KeyValue == "" {
		c.Target.KeyValue = "admin"
	}

	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "text"
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Password.Cost < bcrypt.MinCost || c.Password.Cost > bcrypt.MaxCost {
		return fmt.Errorf("password.cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(c.Password.Value) > passhash.MaxPasswordLength {
		return fmt.Errorf("password.value must be at most %d bytes", passhash.MaxPasswordLength)
	}
	if c.Password.ExistingHash != "" && !passhash.HasKnownPrefix(c.Password.ExistingHash) {
		return fmt.Errorf("password.existing_hash is not a bcrypt hash")
	}

	if c.Target.Table == "" || c.Target.Column == "" || c.Target.KeyColumn == "" {
		return fmt.Errorf("target.table, target.column and target.key_column are required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Observability.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Observability.LogFormat] {
		return fmt.Errorf("log_format must be one of: json, text")
	}

	return nil
}
