// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	x509certs "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/ldaps-cert-chain-retriever/src/internal/x509/chain"
)

const (
	// EnvPrefix prefixes every environment variable read by [Load].
	EnvPrefix = "LDAPS_CHAIN_"
	// EnvConfigFile names the variable holding the configuration file path.
	EnvConfigFile = EnvPrefix + "CONFIG_FILE"
	// DotEnvFile is the .env file read when [Load] is given none.
	DotEnvFile = ".env"
)

// Default values.
const (
	DefaultServer  = "host.yourldapdomain.com"
	DefaultPort    = 636
	DefaultMethod  = x509chain.MethodLDAPS
	DefaultFormat  = string(x509certs.EncodingPEM)
	DefaultTimeout = 10
)

// DefaultTestServers are the public LDAPS servers tried, in order, in test mode.
var DefaultTestServers = []string{"ldap.google.com", "ldap.forumsys.com"}

var (
	// ErrInvalidConfig indicates a configuration value that cannot be used.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrSchema indicates a configuration file rejected by the embedded schema.
	ErrSchema = errors.New("config: configuration file does not match schema")
)

//go:embed schema.json
var schema string

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config holds the retriever settings.
type Config struct {
	// Server is the LDAP server hostname.
	Server string `json:"server" yaml:"server" env:"SERVER"`
	// Port is the LDAPS port.
	Port int `json:"port" yaml:"port" env:"PORT"`
	// Method selects the handshake: ldaps, starttls or tls.
	Method string `json:"method" yaml:"method" env:"METHOD"`
	// Format is the bundle encoding: pem or der.
	Format string `json:"format" yaml:"format" env:"FORMAT"`
	// Output is the bundle file path. Empty means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty" env:"OUTPUT"`
	// TimeoutSeconds bounds the handshake.
	TimeoutSeconds int `json:"timeoutSeconds" yaml:"timeoutSeconds" env:"TIMEOUT_SECONDS"`
	// Debug enables diagnostics.
	Debug bool `json:"debug" yaml:"debug" env:"DEBUG"`
	// VerifySignatures adds cryptographic checks to chain validation.
	VerifySignatures bool `json:"verifySignatures" yaml:"verifySignatures" env:"VERIFY_SIGNATURES"`
	// TestServers are tried in order when running in test mode.
	TestServers []string `json:"testServers" yaml:"testServers" env:"TEST_SERVERS" envSeparator:","`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Server:         DefaultServer,
		Port:           DefaultPort,
		Method:         DefaultMethod,
		Format:         DefaultFormat,
		TimeoutSeconds: DefaultTimeout,
		TestServers:    append([]string(nil), DefaultTestServers...),
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("%w: server must not be empty", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if _, err := x509chain.NewHandshaker(c.Method, c.Timeout()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := x509certs.ParseEncoding(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Load resolves the configuration from defaults, the configuration file,
// the given .env files and the environment.
//
// Parameters:
//   - configPath: Path to a .json, .yaml or .yml file (optional, falls back
//     to the LDAPS_CHAIN_CONFIG_FILE environment variable)
//   - dotEnvFiles: .env files to read (optional, defaults to [DotEnvFile]);
//     missing files are skipped
//
// Returns:
//   - *Config: The resolved configuration, with defaults restored for
//     zero or negative numeric values
//   - error: Read, parse or schema errors of the configuration file, or
//     malformed environment variables
func Load(configPath string, dotEnvFiles ...string) (*Config, error) {
	if err := loadDotEnv(dotEnvFiles); err != nil {
		return nil, err
	}

	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		format := detectConfigFormat(configPath)
		if err := validateSchema(data, format); err != nil {
			return nil, err
		}
		if err := unmarshalConfig(data, cfg, format); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores defaults for values that were set but unusable.
func (c *Config) applyDefaults() {
	c.Server = strings.TrimSpace(c.Server)
	if c.Server == "" {
		c.Server = DefaultServer
	}
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeout
	}

	c.Method = strings.ToLower(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = DefaultMethod
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = DefaultFormat
	}

	if len(c.TestServers) == 0 {
		c.TestServers = append([]string(nil), DefaultTestServers...)
	}
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		files = []string{DotEnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// detectConfigFormat determines the configuration file format based on file extension.
// Extensions are matched case-insensitively; anything other than .yaml or .yml is JSON.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// validateSchema checks the raw configuration file against the embedded schema.
// YAML documents are decoded first so both formats share one schema.
func validateSchema(data []byte, format configFormat) error {
	var document gojsonschema.JSONLoader
	switch format {
	case configFormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		document = gojsonschema.NewGoLoader(doc)
	default:
		document = gojsonschema.NewBytesLoader(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), document)
	if err != nil {
		return fmt.Errorf("failed to parse JSON config file: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, strings.TrimPrefix(e.Field(), "(root).")+": "+e.Description())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(problems, "; "))
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}
