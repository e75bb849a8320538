package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
)

const (
	// DefaultBasePath is the JumpServer REST API prefix used when JUMPSERVER_BASE_PATH is unset.
	DefaultBasePath = "/api/v1"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// File names looked up in the working directory. Both are optional.
var (
	ConfigFile = "config.yaml"
	EnvFile    = ".env"
)

var validate = validator.New()

// Config holds all configuration for jumpserver-mcp.
// Configuration comes from environment variables, optionally seeded from a .env file
// and a config.yaml. Environment variables always override YAML values.
// Secrets (API key id and secret) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Transport selects how MCP clients reach the server.
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio" validate:"oneof=stdio http"`

	// HTTP transport listener (ignored for stdio)
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3480" validate:"required,numeric"`

	JumpServer JumpServerConfig `yaml:"jumpserver" validate:"-"`

	Log LogConfig `yaml:"log"`
}

// JumpServerConfig holds the remote endpoint and API-Key credentials.
// Missing values are not a load error: every API call checks them and fails with
// apperrors.ErrConfiguration before touching the network.
type JumpServerConfig struct {
	BaseURL  string `yaml:"base_url" env:"JUMPSERVER_BASE_URL" validate:"required,url"`
	BasePath string `yaml:"base_path" env:"JUMPSERVER_BASE_PATH" env-default:"/api/v1"`

	AccessKeyID     string `yaml:"-" env:"JUMPSERVER_ACCESS_KEY_ID" validate:"required"`         // Secret - not in YAML
	AccessKeySecret string `yaml:"-" env:"JUMPSERVER_ACCESS_KEY_SECRET" validate:"required"` // Secret - not in YAML

	// OrgID is the fallback organization when a call does not name one.
	OrgID string `yaml:"org_id" env:"JUMPSERVER_ORG_ID"`

	// Timeout bounds each HTTP call to JumpServer.
	Timeout time.Duration `yaml:"timeout" env:"JUMPSERVER_TIMEOUT" env-default:"30s"`
}

// LogConfig controls the zap logger and its optional rotated file sink.
type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	File       string `yaml:"file" env:"LOG_FILE" env-default:""` // Empty means stderr
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"50" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"14" validate:"gte=0"`
	Compress   bool   `yaml:"compress" env:"LOG_COMPRESS" env-default:"false"`
}

// Load reads configuration from .env, config.yaml and the environment, in increasing precedence.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", EnvFile, err)
	}

	if _, err := os.Stat(ConfigFile); err == nil {
		if err := cleanenv.ReadConfig(ConfigFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Check normalizes and validates the loaded values.
// Call it again after overriding fields (e.g. from command-line flags).
func (c *Config) Check() error {
	c.normalize()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// normalize handles fields that need post-processing after loading.
func (c *Config) normalize() {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.JumpServer.BaseURL = strings.TrimSpace(c.JumpServer.BaseURL)
	// An explicitly empty JUMPSERVER_BASE_PATH behaves like an unset one
	if strings.TrimSpace(c.JumpServer.BasePath) == "" {
		c.JumpServer.BasePath = DefaultBasePath
	}
}

// ListenAddr returns host:port for the HTTP transport.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// ValidateCredentials checks that the API-Key pair is present.
func (c *JumpServerConfig) ValidateCredentials() error {
	if err := validate.StructPartial(c, "AccessKeyID", "AccessKeySecret"); err != nil {
		return fmt.Errorf("%w: missing JumpServer API-Key credentials. Set JUMPSERVER_ACCESS_KEY_ID and JUMPSERVER_ACCESS_KEY_SECRET", apperrors.ErrConfiguration)
	}
	return nil
}

// ValidateEndpoint checks that the base URL is present and parseable.
func (c *JumpServerConfig) ValidateEndpoint() error {
	if err := validate.StructPartial(c, "BaseURL"); err != nil {
		if strings.TrimSpace(c.BaseURL) == "" {
			return fmt.Errorf("%w: missing JumpServer endpoint config. Set JUMPSERVER_BASE_URL", apperrors.ErrConfiguration)
		}
		return fmt.Errorf("%w: JUMPSERVER_BASE_URL %q is not a valid URL", apperrors.ErrConfiguration, c.BaseURL)
	}
	return nil
}

// Validate checks everything an API call needs except the organization id.
func (c *JumpServerConfig) Validate() error {
	if err := c.ValidateEndpoint(); err != nil {
		return err
	}
	return c.ValidateCredentials()
}

// ResolveOrgID returns orgID if set, otherwise the configured default.
func (c *JumpServerConfig) ResolveOrgID(orgID string) (string, error) {
	if resolved := strings.TrimSpace(orgID); resolved != "" {
		return resolved, nil
	}
	if c.OrgID != "" {
		return c.OrgID, nil
	}
	return "", fmt.Errorf("%w: missing organization id. Set JUMPSERVER_ORG_ID", apperrors.ErrConfiguration)
}
