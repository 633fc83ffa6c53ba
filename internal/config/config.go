package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                    `yaml:"port"`
	Env            string                 `yaml:"env"` // "development" | "production" | "test"
	LogLevel       string                 `yaml:"log_level"`
	MongoURI       string                 `yaml:"-"`
	RedisURL       string                 `yaml:"-"` // empty disables Redis-backed features
	Database       DatabaseRuntimeConfig  `yaml:"database"`
	Redis          RedisRuntimeConfig     `yaml:"redis"`
	Storage        StorageRuntimeConfig   `yaml:"storage"`
	Paths          RuntimePathsConfig     `yaml:"paths"`
	AllowedOrigins []string               `yaml:"allowed_origins"`
	Content        ContentRuntimeConfig   `yaml:"content"`
	Counters       CountersRuntimeConfig  `yaml:"counters"`
	RateLimit      RateLimitRuntimeConfig `yaml:"rate_limit"`
}

type DatabaseRuntimeConfig struct {
	Driver       string            `yaml:"driver"` // "mongo" (default) | "memory"
	URI          string            `yaml:"uri"`
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	Username     string            `yaml:"username"`
	Password     string            `yaml:"password"`
	Name         string            `yaml:"name"`
	AuthSource   string            `yaml:"auth_source"`
	Params       map[string]string `yaml:"params"`
	Transactions bool              `yaml:"transactions"`
	Timeout      time.Duration     `yaml:"-"`
}

type RedisRuntimeConfig struct {
	Enable   bool              `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type StorageRuntimeConfig struct {
	Driver      string          `yaml:"driver"` // "local" | "s3"
	MaxUploadMB int             `yaml:"max_upload_mb"`
	PublicURL   string          `yaml:"public_url"`
	S3          S3RuntimeConfig `yaml:"s3"`
}

type S3RuntimeConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	Prefix          string `yaml:"prefix"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

type ContentRuntimeConfig struct {
	// RebalanceOnReassign moves a post's count between categories when an
	// update changes its category. Off by default.
	RebalanceOnReassign bool `yaml:"rebalance_on_reassign"`
}

type CountersRuntimeConfig struct {
	// ReconcileInterval > 0 registers a job recounting category post totals.
	ReconcileInterval time.Duration `yaml:"-"`
}

type RateLimitRuntimeConfig struct {
	Max    int           `yaml:"max"`
	Window time.Duration `yaml:"-"`
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	NodeEnv        string             `yaml:"node_env"`
	LogLevel       string             `yaml:"log_level"`
	MongoURI       string             `yaml:"mongodb_uri"`
	RedisURL       string             `yaml:"redis_url"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	Storage        rawStorageConfig   `yaml:"storage"`
	Paths          rawPathsConfig     `yaml:"paths"`
	LogDir         string             `yaml:"log_dir"`
	StaticDir      string             `yaml:"static_dir"`
	UploadsDir     string             `yaml:"uploads_dir"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	CORSOrigins    []string           `yaml:"cors_allowed_origins"`
	Content        rawContentConfig   `yaml:"content"`
	Counters       rawCountersConfig  `yaml:"counters"`
	RateLimit      rawRateLimitConfig `yaml:"rate_limit"`
}

type rawDatabaseConfig struct {
	Driver       string            `yaml:"driver"`
	URI          string            `yaml:"uri"`
	URL          string            `yaml:"url"`
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	User         string            `yaml:"user"`
	Username     string            `yaml:"username"`
	Password     string            `yaml:"password"`
	Name         string            `yaml:"name"`
	DBName       string            `yaml:"db_name"`
	AuthSource   string            `yaml:"auth_source"`
	Params       map[string]string `yaml:"params"`
	Transactions *bool             `yaml:"transactions"`
	Timeout      string            `yaml:"timeout"`
}

type rawRedisConfig struct {
	Enable   *bool             `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type rawStorageConfig struct {
	Driver      string      `yaml:"driver"`
	MaxUploadMB int         `yaml:"max_upload_mb"`
	PublicURL   string      `yaml:"public_url"`
	S3          rawS3Config `yaml:"s3"`
}

type rawS3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	CustomDomain    string `yaml:"custom_domain"`
	Prefix          string `yaml:"prefix"`
}

type rawPathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

type rawContentConfig struct {
	RebalanceOnReassign *bool `yaml:"rebalance_on_reassign"`
}

type rawCountersConfig struct {
	ReconcileInterval string `yaml:"reconcile_interval"`
}

type rawRateLimitConfig struct {
	Max    int    `yaml:"max"`
	Window string `yaml:"window"`
}

// ResolvePath picks the config file: the flag value, then JBEST_CONFIG, then the default.
func ResolvePath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load reads configPath. A missing default config file yields the built-in
// defaults so the server can start with zero setup.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := Parse(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return &cfg, nil
}

// Parse applies YAML content on top of cfg and validates the result.
func Parse(content []byte, cfg *AppConfig) error {
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return err
		}
	}
	if err := applyRawAppConfig(cfg, raw); err != nil {
		return err
	}
	return cfg.validate()
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	switch c.Database.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("invalid database.driver %q, expected mongo or memory", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		s3 := c.Storage.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return fmt.Errorf("incomplete storage.s3 config: bucket/region/access_key_id/secret_access_key are required")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q, expected local or s3", c.Storage.Driver)
	}
	if c.Storage.MaxUploadMB < 1 {
		return fmt.Errorf("invalid storage.max_upload_mb %d, expected >= 1", c.Storage.MaxUploadMB)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	timeout, _ := time.ParseDuration(defaultMongoTimeout)
	window, _ := time.ParseDuration(defaultRateWindow)
	cfg := AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		LogLevel: "info",
		Database: DatabaseRuntimeConfig{
			Driver:  DriverMongo,
			Host:    defaultMongoHost,
			Port:    defaultMongoPort,
			Name:    defaultMongoName,
			Timeout: timeout,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Storage: StorageRuntimeConfig{
			Driver:      defaultStorageDriver,
			MaxUploadMB: defaultMaxUploadMB,
		},
		RateLimit: RateLimitRuntimeConfig{
			Max:    defaultRateMax,
			Window: window,
		},
	}
	cfg.MongoURI = cfg.Database.URIValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	db, err := applyRawDatabaseConfig(cfg.Database, raw)
	if err != nil {
		return err
	}
	cfg.Database = db
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	cfg.Storage = applyRawStorageConfig(cfg.Storage, raw.Storage)

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Static); v != "" {
		cfg.Paths.Static = v
	}
	if v := strings.TrimSpace(raw.StaticDir); v != "" {
		cfg.Paths.Static = v
	}
	if v := strings.TrimSpace(raw.UploadsDir); v != "" {
		cfg.Paths.Static = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	if raw.Content.RebalanceOnReassign != nil {
		cfg.Content.RebalanceOnReassign = *raw.Content.RebalanceOnReassign
	}
	if v := strings.TrimSpace(raw.Counters.ReconcileInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid counters.reconcile_interval %q", v)
		}
		cfg.Counters.ReconcileInterval = d
	}
	if raw.RateLimit.Max != 0 {
		cfg.RateLimit.Max = raw.RateLimit.Max
	}
	if v := strings.TrimSpace(raw.RateLimit.Window); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid rate_limit.window %q", v)
		}
		cfg.RateLimit.Window = d
	}

	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.MongoURI = cfg.Database.URIValue()
	if v := strings.TrimSpace(raw.MongoURI); v != "" {
		cfg.MongoURI = v
	}
	cfg.RedisURL = ""
	if cfg.Redis.Enable {
		cfg.RedisURL = cfg.Redis.URLValue()
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.Redis.Enable = true
		cfg.RedisURL = normalizeRedisRawURL(v)
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) (DatabaseRuntimeConfig, error) {
	cfg := current
	r := raw.Database
	if v := strings.ToLower(strings.TrimSpace(r.Driver)); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(r.URI); v != "" {
		cfg.URI = v
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		cfg.URI = v
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	if r.Port != 0 {
		cfg.Port = r.Port
	}
	if v := strings.TrimSpace(r.User); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		cfg.Username = v
	}
	if r.Password != "" {
		cfg.Password = r.Password
	}
	if v := strings.TrimSpace(r.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(r.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(r.AuthSource); v != "" {
		cfg.AuthSource = v
	}
	if r.Params != nil {
		cfg.Params = copyStringMap(r.Params)
	}
	if r.Transactions != nil {
		cfg.Transactions = *r.Transactions
	}
	if v := strings.TrimSpace(r.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid database.timeout %q", v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	r := raw.Redis
	if r.Enable != nil {
		cfg.Enable = *r.Enable
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		cfg.URL = v
		if r.Enable == nil {
			cfg.Enable = true
		}
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	if r.Port != 0 {
		cfg.Port = r.Port
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		cfg.Username = v
	}
	if r.Password != "" {
		cfg.Password = r.Password
	}
	if r.DB != nil {
		cfg.DB = *r.DB
	}
	if r.TLS != nil {
		cfg.TLS = *r.TLS
	}
	if r.Params != nil {
		cfg.Params = copyStringMap(r.Params)
	}
	return cfg
}

func applyRawStorageConfig(current StorageRuntimeConfig, raw rawStorageConfig) StorageRuntimeConfig {
	cfg := current
	if v := strings.ToLower(strings.TrimSpace(raw.Driver)); v != "" {
		cfg.Driver = v
	}
	if raw.MaxUploadMB != 0 {
		cfg.MaxUploadMB = raw.MaxUploadMB
	}
	if v := strings.TrimSpace(raw.PublicURL); v != "" {
		cfg.PublicURL = strings.TrimRight(v, "/")
	}
	s3 := cfg.S3
	if v := strings.TrimSpace(raw.S3.Endpoint); v != "" {
		s3.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.S3.Region); v != "" {
		s3.Region = v
	}
	if v := strings.TrimSpace(raw.S3.Bucket); v != "" {
		s3.Bucket = v
	}
	if v := strings.TrimSpace(raw.S3.AccessKeyID); v != "" {
		s3.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.S3.SecretAccessKey); v != "" {
		s3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(raw.S3.PublicURL); v != "" {
		s3.PublicURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.S3.CustomDomain); v != "" {
		s3.PublicURL = strings.TrimRight(v, "/")
	}
	if v := strings.Trim(strings.TrimSpace(raw.S3.Prefix), "/"); v != "" {
		s3.Prefix = v
	}
	cfg.S3 = s3
	return cfg
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// StaticDir returns the resolved directory holding uploaded files.
func (c *AppConfig) StaticDir() string {
	return ResolveRuntimePath(c.Paths.Static, "uploads")
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) << 20
}
