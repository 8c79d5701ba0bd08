/*
Package config loads radproxy settings from YAML or TOML.

The format follows the file extension: .yaml and .yml are YAML, .toml is TOML.
Durations are integer milliseconds in keys ending with _ms.

	log_level: info
	audit_log: /var/log/radproxy/audit.json
	dictionary:
	  files: [/etc/radkit/vendor.yaml]
	listeners:
	  - {name: auth, addr: ":1812"}
	  - {name: acct, addr: ":1813"}
	clients:
	  - {name: lan, network: 10.0.0.0/8, secret: s3cret}
	cache:
	  ttl_ms: 10000
	client:
	  attempts: 3
	  timeout_ms: 3000
	realms:
	  - name: example.com
	    origins:
	      - {addr: "192.0.2.10:1812", secret: upstream}
	default_realm: example.com
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const (
	DefaultLogLevel           = "info"
	DefaultCacheTTLMs         = 10000
	DefaultAttempts           = 3
	DefaultTimeoutMs          = 3000
	DefaultBlacklistTTLMs     = 60000
	DefaultBlacklistThreshold = 3
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel     string           `yaml:"log_level" toml:"log_level"`
	AuditLog     string           `yaml:"audit_log" toml:"audit_log"`
	Dictionary   DictionaryConfig `yaml:"dictionary" toml:"dictionary"`
	Listeners    []ListenerConfig `yaml:"listeners" toml:"listeners"`
	Clients      []ClientConfig   `yaml:"clients" toml:"clients"`
	Cache        CacheConfig      `yaml:"cache" toml:"cache"`
	Client       UpstreamConfig   `yaml:"client" toml:"client"`
	Realms       []RealmConfig    `yaml:"realms" toml:"realms"`
	DefaultRealm string           `yaml:"default_realm" toml:"default_realm"`
}

// DictionaryConfig lists YAML dictionary files loaded over the built-in one.
type DictionaryConfig struct {
	Files []string `yaml:"files" toml:"files"`
}

// ListenerConfig is one server socket.
type ListenerConfig struct {
	Name string `yaml:"name" toml:"name"`
	Addr string `yaml:"addr" toml:"addr"`
}

// ClientConfig is a NAS network and its shared secret.
type ClientConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Network string `yaml:"network" toml:"network"`
	Secret  string `yaml:"secret" toml:"secret"`
}

// CacheConfig sets the duplicate request window.
type CacheConfig struct {
	TTLMs int64 `yaml:"ttl_ms" toml:"ttl_ms"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMs) * time.Millisecond
}

// UpstreamConfig configures the client used to reach origin servers.
type UpstreamConfig struct {
	Bind                 string `yaml:"bind" toml:"bind"`
	Attempts             int    `yaml:"attempts" toml:"attempts"`
	TimeoutMs            int64  `yaml:"timeout_ms" toml:"timeout_ms"`
	Backoff              bool   `yaml:"backoff" toml:"backoff"`
	BackoffMaxMs         int64  `yaml:"backoff_max_ms" toml:"backoff_max_ms"`
	BlacklistTTLMs       int64  `yaml:"blacklist_ttl_ms" toml:"blacklist_ttl_ms"`
	BlacklistThreshold   int    `yaml:"blacklist_threshold" toml:"blacklist_threshold"`
	MessageAuthenticator bool   `yaml:"message_authenticator" toml:"message_authenticator"`
}

func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c UpstreamConfig) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxMs) * time.Millisecond
}

func (c UpstreamConfig) BlacklistTTL() time.Duration {
	return time.Duration(c.BlacklistTTLMs) * time.Millisecond
}

// RealmConfig routes users of a realm to origin servers, tried in order.
type RealmConfig struct {
	Name    string         `yaml:"name" toml:"name"`
	Origins []OriginConfig `yaml:"origins" toml:"origins"`
}

type OriginConfig struct {
	Addr   string `yaml:"addr" toml:"addr"`
	Secret string `yaml:"secret" toml:"secret"`
}

// Default returns a configuration with every default applied and nothing to serve.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}

// LoadFile loads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return Load(data, format)
}

// Load parses and validates data in the given format.
func Load(data []byte, format Format) (*Config, error) {
	cfg := &Config{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	case FormatTOML:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml config: %w", err)
		}
		if err := tree.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Cache.TTLMs == 0 {
		c.Cache.TTLMs = DefaultCacheTTLMs
	}
	if c.Client.Bind == "" {
		c.Client.Bind = ":0"
	}
	if c.Client.Attempts == 0 {
		c.Client.Attempts = DefaultAttempts
	}
	if c.Client.TimeoutMs == 0 {
		c.Client.TimeoutMs = DefaultTimeoutMs
	}
	if c.Client.BlacklistTTLMs == 0 {
		c.Client.BlacklistTTLMs = DefaultBlacklistTTLMs
	}
	if c.Client.BlacklistThreshold == 0 {
		c.Client.BlacklistThreshold = DefaultBlacklistThreshold
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return invalid("log_level %q", c.LogLevel)
	}

	names := make(map[string]bool)
	for i, l := range c.Listeners {
		if l.Name == "" {
			return invalid("listeners[%d]: name is required", i)
		}
		if names[l.Name] {
			return invalid("listeners[%d]: duplicate name %q", i, l.Name)
		}
		names[l.Name] = true
		if l.Addr == "" {
			return invalid("listeners[%d]: addr is required", i)
		}
	}

	for i, cl := range c.Clients {
		if cl.Network == "" {
			return invalid("clients[%d]: network is required", i)
		}
		if cl.Secret == "" {
			return invalid("clients[%d]: secret is required", i)
		}
	}

	if c.Cache.TTLMs < 0 {
		return invalid("cache.ttl_ms must not be negative")
	}
	if c.Client.Attempts < 1 {
		return invalid("client.attempts must be at least 1")
	}
	if c.Client.TimeoutMs < 0 || c.Client.BackoffMaxMs < 0 || c.Client.BlacklistTTLMs < 0 {
		return invalid("client durations must not be negative")
	}
	if c.Client.BlacklistThreshold < 0 {
		return invalid("client.blacklist_threshold must not be negative")
	}

	realms := make(map[string]bool)
	for i, r := range c.Realms {
		if r.Name == "" {
			return invalid("realms[%d]: name is required", i)
		}
		key := strings.ToLower(r.Name)
		if realms[key] {
			return invalid("realms[%d]: duplicate realm %q", i, r.Name)
		}
		realms[key] = true
		if len(r.Origins) == 0 {
			return invalid("realms[%d]: at least one origin is required", i)
		}
		for j, o := range r.Origins {
			if o.Addr == "" || o.Secret == "" {
				return invalid("realms[%d].origins[%d]: addr and secret are required", i, j)
			}
		}
	}
	if c.DefaultRealm != "" && !realms[strings.ToLower(c.DefaultRealm)] {
		return invalid("default_realm %q is not a configured realm", c.DefaultRealm)
	}

	return nil
}
