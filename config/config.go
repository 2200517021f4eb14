package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Upload   UploadConfig   `yaml:"upload"`
	Auth     AuthConfig     `yaml:"auth"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig describes the bucket uploads are staged into. Type is "s3"
// (AWS, region pinned) or "minio" (custom endpoint).
type StorageConfig struct {
	Type       string `yaml:"type"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Region     string `yaml:"region"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	BaseFolder string `yaml:"base_folder"`
}

type AnalysisConfig struct {
	MultiDocBaseURL string `yaml:"multi_doc_base_url"`
	MultiDocRoute   string `yaml:"multi_doc_route"`
	RentRollBaseURL string `yaml:"rent_roll_base_url"`
	RentRollRoute   string `yaml:"rent_roll_route"`
	PropertyType    string `yaml:"property_type"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

type UploadConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxFileSizeMB     int      `yaml:"max_file_size_mb"`
}

// AuthConfig enables the login page when Username is set. The password check
// is a plaintext comparison and is a placeholder, not access control.
type AuthConfig struct {
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StorageTypeS3    = "s3"
	StorageTypeMinio = "minio"

	defaultBaseFolder = "USER#2/ai-agent-rentroll-parser"
)

var GlobalConfig *Config

// Load reads the YAML file at path (optional), lets a .env file and the
// process environment override secrets, applies defaults and validates.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// environment-only deployment
	default:
		return nil, err
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&c.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.Storage.Region, "AWS_REGION")
	setString(&c.Storage.Bucket, "S3_BUCKET_NAME")
	setString(&c.Storage.BaseFolder, "S3_BASE_FOLDER")
	setString(&c.Analysis.MultiDocBaseURL, "API_BASE_URL")
	setString(&c.Analysis.RentRollBaseURL, "RENT_ROLL_API_BASE_URL")
	setString(&c.Auth.Username, "AUTH_USERNAME")
	setString(&c.Auth.Password, "AUTH_PASSWORD")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("ALLOWED_EXTENSIONS"); v != "" {
		c.Upload.AllowedExtensions = splitList(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageTypeS3
	}
	if c.Storage.BaseFolder == "" {
		c.Storage.BaseFolder = defaultBaseFolder
	}
	c.Storage.BaseFolder = strings.TrimRight(c.Storage.BaseFolder, "/")

	c.Analysis.MultiDocBaseURL = strings.TrimRight(c.Analysis.MultiDocBaseURL, "/")
	c.Analysis.RentRollBaseURL = strings.TrimRight(c.Analysis.RentRollBaseURL, "/")
	if c.Analysis.MultiDocRoute == "" {
		c.Analysis.MultiDocRoute = "cactus-ai-multi-docs-smart-analysis"
	}
	if c.Analysis.RentRollRoute == "" {
		c.Analysis.RentRollRoute = "cactus-ai-commercial-rent-roll"
	}
	if c.Analysis.PropertyType == "" {
		c.Analysis.PropertyType = "self_storage"
	}
	if c.Analysis.TimeoutSeconds == 0 {
		c.Analysis.TimeoutSeconds = 300
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = []string{"pdf", "xlsx", "xls"}
	}
	if c.Upload.MaxFileSizeMB == 0 {
		c.Upload.MaxFileSizeMB = 50
	}

	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 12
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.Storage.AccessKey, "AWS_ACCESS_KEY_ID"},
		{c.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY"},
		{c.Storage.Region, "AWS_REGION"},
		{c.Storage.Bucket, "S3_BUCKET_NAME"},
		{c.Analysis.MultiDocBaseURL, "API_BASE_URL"},
		{c.Analysis.RentRollBaseURL, "RENT_ROLL_API_BASE_URL"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required setting %s", r.name)
		}
	}

	switch c.Storage.Type {
	case StorageTypeS3:
	case StorageTypeMinio:
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("storage.endpoint is required for minio storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	if c.Auth.Username != "" {
		if c.Auth.Password == "" {
			return fmt.Errorf("missing required setting AUTH_PASSWORD when login is enabled")
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("missing required setting JWT_SECRET when login is enabled")
		}
	}
	return nil
}

// AuthEnabled reports whether the login page guards the application.
func (c *Config) AuthEnabled() bool {
	return c.Auth.Username != ""
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
