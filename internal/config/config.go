// Package config loads growcore settings from YAML, a .env file and the
// process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"growcore/internal/blob"
	"growcore/internal/core"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Storage   core.StorageConfig `yaml:"storage"`
	Blob      blob.Config        `yaml:"blob"`
	Mail      MailConfig         `yaml:"mail"`
	Education EducationConfig    `yaml:"education"`
	Exports   ExportsConfig      `yaml:"exports"`
	Telemetry TelemetryConfig    `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// Timezone interprets datetime-local timestamps from the dashboard.
	Timezone string `yaml:"timezone"`
}

// MailConfig holds the contact relay settings. The API key is never read
// from or written to YAML.
type MailConfig struct {
	APIKey    string `yaml:"-"`
	FromEmail string `yaml:"from_email"`
	ToEmail   string `yaml:"to_email"`
	// APIHost overrides the SendGrid API host, e.g. the EU region.
	APIHost string `yaml:"api_host,omitempty"`
}

// EducationConfig points at the education page used for search.
type EducationConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ExportsConfig sizes the guide export worker.
type ExportsConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// TelemetryConfig selects optional observers.
type TelemetryConfig struct {
	// TracePath receives JSON span lines when set.
	TracePath string `yaml:"trace_path"`
	// ExpvarName publishes operation totals under /debug/vars when set.
	ExpvarName string `yaml:"expvar_name"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: core.StorageConfig{
			Driver:     core.StorageSQLite,
			SQLitePath: "./growcore.db",
		},
		Blob: blob.Config{
			Driver: string(blob.DriverFilesystem),
			Root:   "./artifacts",
		},
		Education: EducationConfig{
			Path:  "./content/education.html",
			Watch: true,
		},
		Exports: ExportsConfig{QueueSize: 32},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile exports the variables in a .env file without overriding ones
// already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Location resolves the configured timezone; empty means local time.
func (s ServerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Server.Addr, "GROWCORE_ADDR")
	setString(&c.Server.Timezone, "GROWCORE_TIMEZONE")
	if v := os.Getenv("GROWCORE_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("GROWCORE_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = core.StorageDriver(v)
	}
	setString(&c.Storage.SQLitePath, "GROWCORE_SQLITE_PATH")
	setString(&c.Storage.PostgresDSN, "GROWCORE_POSTGRES_DSN")

	setString(&c.Blob.Driver, "GROWCORE_BLOB_DRIVER")
	setString(&c.Blob.Root, "GROWCORE_BLOB_ROOT")
	setString(&c.Blob.S3.Bucket, "GROWCORE_S3_BUCKET")
	setString(&c.Blob.S3.Region, "GROWCORE_S3_REGION")
	setString(&c.Blob.S3.Endpoint, "GROWCORE_S3_ENDPOINT")

	setString(&c.Mail.APIKey, "SENDGRID_API_KEY")
	setString(&c.Mail.FromEmail, "FROM_EMAIL")
	setString(&c.Mail.ToEmail, "TO_EMAIL")
	setString(&c.Mail.APIHost, "SENDGRID_API_HOST")

	setString(&c.Education.Path, "GROWCORE_EDUCATION_PATH")
	setString(&c.Telemetry.TracePath, "GROWCORE_TRACE_PATH")

	if v := os.Getenv("GROWCORE_EXPORT_QUEUE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("GROWCORE_EXPORT_QUEUE: want a positive integer, got %q", v)
		}
		c.Exports.QueueSize = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
