package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Render  RenderConfig
	Archive ArchiveConfig
	Storage StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// RenderConfig holds rendering engine settings
type RenderConfig struct {
	// AssetDir is the root directory for legacy relative image references.
	AssetDir string
	// FetchTimeout bounds a single remote image fetch.
	FetchTimeout time.Duration
	// MaxImageBytes caps the size of a single fetched image.
	MaxImageBytes int64
}

// ArchiveConfig selects and configures the rendered-document archive
type ArchiveConfig struct {
	// Backend is "filesystem" or "s3"
	Backend string
	// BasePath is the root directory for the filesystem backend
	BasePath string
	// BaseURL is the URL prefix for serving archived documents
	BaseURL string
	// RetentionDays is how long to keep documents (0 = forever)
	RetentionDays int
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	KeyPrefix         string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with QUOTEDESK_ prefix (e.g., QUOTEDESK_STORAGE_SECRET_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("QUOTEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Render: RenderConfig{
			AssetDir:      v.GetString("render.asset_dir"),
			FetchTimeout:  v.GetDuration("render.fetch_timeout"),
			MaxImageBytes: v.GetInt64("render.max_image_bytes"),
		},
		Archive: ArchiveConfig{
			Backend:       v.GetString("archive.backend"),
			BasePath:      v.GetString("archive.base_path"),
			BaseURL:       v.GetString("archive.base_url"),
			RetentionDays: v.GetInt("archive.retention_days"),
		},
		Storage: StorageConfig{
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			KeyPrefix:         v.GetString("storage.key_prefix"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "quotedesk-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Rendering a large document synchronously needs headroom.
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 4 << 20
	}

	if cfg.Render.FetchTimeout == 0 {
		cfg.Render.FetchTimeout = 10 * time.Second
	}
	if cfg.Render.MaxImageBytes == 0 {
		cfg.Render.MaxImageBytes = 8 << 20
	}

	if cfg.Archive.Backend == "" {
		cfg.Archive.Backend = "filesystem"
	}
	if cfg.Archive.BasePath == "" {
		cfg.Archive.BasePath = "/data/proposals"
	}
	if cfg.Archive.BaseURL == "" {
		cfg.Archive.BaseURL = "/api/v1/documents"
	}

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
}

// validate checks cross-field and environment-specific constraints
func (c *Config) validate() error {
	switch c.Archive.Backend {
	case "filesystem", "s3":
	default:
		return fmt.Errorf("archive.backend must be \"filesystem\" or \"s3\", got %q", c.Archive.Backend)
	}

	if c.Archive.Backend == "s3" {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when archive.backend is s3")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage credentials are required when archive.backend is s3")
		}
	}

	if c.Archive.RetentionDays < 0 {
		return fmt.Errorf("archive.retention_days cannot be negative")
	}
	if c.Render.MaxImageBytes < 0 {
		return fmt.Errorf("render.max_image_bytes cannot be negative")
	}

	if c.App.Env == "production" && c.Render.AssetDir == "" {
		// Legacy relative references fail closed without an asset dir;
		// outside development the operator must choose one explicitly.
		return fmt.Errorf("render.asset_dir is required in production")
	}

	return nil
}
