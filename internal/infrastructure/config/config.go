package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Record store drivers
const (
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StorePostgres  = "postgres"
)

// Export guard drivers
const (
	GuardMemory = "memory"
	GuardRedis  = "redis"
)

// Export archive drivers
const (
	ArchiveNone       = "none"
	ArchiveFilesystem = "filesystem"
	ArchiveS3         = "s3"
	ArchiveGCS        = "gcs"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Store     StoreConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Printing  PrintingConfig
	Export    ExportConfig
	Storage   StorageConfig
	GCS       GCSConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	TrustedProxies  []string
	CORSOrigins     []string // empty rejects cross-origin requests
	SwaggerEnabled  bool     // serve /swagger/*any
	SwaggerAllowIPs []string // IPs or CIDRs allowed to read /swagger; empty allows everyone
}

// StoreConfig selects and configures the record store
type StoreConfig struct {
	Driver    string // firestore, mongo, postgres
	Firestore FirestoreConfig
	Mongo     MongoConfig
	Database  DatabaseConfig
}

// FirestoreConfig holds Firestore client settings
type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string // empty means the default database
	CredentialsFile string // empty means application default credentials
	EmulatorHost    string // e.g. localhost:8081
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds the document cache settings
type CacheConfig struct {
	Enabled      bool
	Driver       string // memory, redis
	DocumentsTTL time.Duration
}

// PrintingConfig holds HTML rendering and headless browser settings
type PrintingConfig struct {
	ChromeRemoteURL string // empty launches a local browser
	NoSandbox       bool   // required when running as root in containers
	Timeout         time.Duration
	TemplateDir     string // empty uses the embedded templates
	LogoURL         string
}

// ExportConfig holds PDF export pipeline settings
type ExportConfig struct {
	GuardDriver      string        // memory, redis
	GuardTTL         time.Duration // safety expiry of a held guard
	ImageTimeout     time.Duration // per image bound of the readiness barrier
	ImageConcurrency int
	ImageBaseURL     string // resolves relative image sources, defaults to the local server
	PublicBaseURL    string // origin encoded in QR codes
	QREndpoint       string
	QRSize           int
	Archive          ArchiveConfig
}

// ArchiveConfig selects where produced PDFs are kept
type ArchiveConfig struct {
	Driver string // none, filesystem, s3, gcs
	Path   string // filesystem root
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Region          string
	Bucket          string
	Endpoint        string // custom endpoint for MinIO and similar
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// GCSConfig holds Google Cloud Storage settings
type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
}

// TelemetryConfig holds OpenTelemetry and Prometheus configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool    // Export OTEL metrics
	MetricsInterval   time.Duration
	PrometheusEnabled bool // Serve /metrics
	LogsEnabled       bool // Bridge zap entries to the OTLP logs exporter
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string // e.g. http://pyroscope:4040
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	SpanProfiles      bool // label CPU samples with the active span id
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHIPDOCS_ prefix (e.g., SHIPDOCS_STORE_DRIVER)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("SHIPDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
			CORSOrigins:     v.GetStringSlice("http.cors_origins"),
			SwaggerEnabled:  v.GetBool("http.swagger_enabled"),
			SwaggerAllowIPs: v.GetStringSlice("http.swagger_allow_ips"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Store: StoreConfig{
			Driver: v.GetString("store.driver"),
			Firestore: FirestoreConfig{
				ProjectID:       v.GetString("store.firestore.project_id"),
				DatabaseID:      v.GetString("store.firestore.database_id"),
				CredentialsFile: v.GetString("store.firestore.credentials_file"),
				EmulatorHost:    v.GetString("store.firestore.emulator_host"),
			},
			Mongo: MongoConfig{
				URI:            v.GetString("store.mongo.uri"),
				Database:       v.GetString("store.mongo.database"),
				ConnectTimeout: v.GetDuration("store.mongo.connect_timeout"),
			},
			Database: DatabaseConfig{
				Host:            v.GetString("store.database.host"),
				Port:            v.GetInt("store.database.port"),
				User:            v.GetString("store.database.user"),
				Password:        v.GetString("store.database.password"),
				DBName:          v.GetString("store.database.dbname"),
				SSLMode:         v.GetString("store.database.sslmode"),
				MaxOpenConns:    v.GetInt("store.database.max_open_conns"),
				MaxIdleConns:    v.GetInt("store.database.max_idle_conns"),
				ConnMaxLifetime: v.GetInt("store.database.conn_max_lifetime"),
				ConnMaxIdleTime: v.GetInt("store.database.conn_max_idle_time"),
			},
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Enabled:      v.GetBool("cache.enabled"),
			Driver:       v.GetString("cache.driver"),
			DocumentsTTL: v.GetDuration("cache.documents_ttl"),
		},
		Printing: PrintingConfig{
			ChromeRemoteURL: v.GetString("printing.chrome_remote_url"),
			NoSandbox:       v.GetBool("printing.no_sandbox"),
			Timeout:         v.GetDuration("printing.timeout"),
			TemplateDir:     v.GetString("printing.template_dir"),
			LogoURL:         v.GetString("printing.logo_url"),
		},
		Export: ExportConfig{
			GuardDriver:      v.GetString("export.guard_driver"),
			GuardTTL:         v.GetDuration("export.guard_ttl"),
			ImageTimeout:     v.GetDuration("export.image_timeout"),
			ImageConcurrency: v.GetInt("export.image_concurrency"),
			ImageBaseURL:     v.GetString("export.image_base_url"),
			PublicBaseURL:    v.GetString("export.public_base_url"),
			QREndpoint:       v.GetString("export.qr_endpoint"),
			QRSize:           v.GetInt("export.qr_size"),
			Archive: ArchiveConfig{
				Driver: v.GetString("export.archive.driver"),
				Path:   v.GetString("export.archive.path"),
			},
		},
		Storage: StorageConfig{
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			Prefix:          v.GetString("storage.prefix"),
		},
		GCS: GCSConfig{
			Bucket:          v.GetString("gcs.bucket"),
			Prefix:          v.GetString("gcs.prefix"),
			CredentialsFile: v.GetString("gcs.credentials_file"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			PrometheusEnabled: v.GetBool("telemetry.prometheus_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
		Profiling: ProfilingConfig{
			Enabled:           v.GetBool("profiling.enabled"),
			ServerAddress:     v.GetString("profiling.server_address"),
			ApplicationName:   v.GetString("profiling.application_name"),
			BasicAuthUser:     v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiling.basic_auth_password"),
			SpanProfiles:      v.GetBool("profiling.span_profiles"),
		},
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shipdocs"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// exports run inside the request
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreFirestore
	}
	if cfg.Store.Mongo.URI == "" {
		cfg.Store.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Store.Mongo.Database == "" {
		cfg.Store.Mongo.Database = "shipdocs"
	}
	if cfg.Store.Mongo.ConnectTimeout == 0 {
		cfg.Store.Mongo.ConnectTimeout = 10 * time.Second
	}
	db := &cfg.Store.Database
	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port == 0 {
		db.Port = 5432
	}
	if db.User == "" {
		db.User = "postgres"
	}
	if db.DBName == "" {
		db.DBName = "shipdocs"
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = 25
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = 5
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = 60
	}
	if db.ConnMaxIdleTime == 0 {
		db.ConnMaxIdleTime = 30
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = GuardMemory
	}
	if cfg.Cache.DocumentsTTL == 0 {
		cfg.Cache.DocumentsTTL = 10 * time.Minute
	}

	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Printing.LogoURL == "" {
		cfg.Printing.LogoURL = "/static/logo.svg"
	}

	if cfg.Export.GuardDriver == "" {
		cfg.Export.GuardDriver = GuardMemory
	}
	if cfg.Export.GuardTTL == 0 {
		cfg.Export.GuardTTL = 2 * time.Minute
	}
	if cfg.Export.ImageTimeout == 0 {
		cfg.Export.ImageTimeout = 5 * time.Second
	}
	if cfg.Export.ImageConcurrency == 0 {
		cfg.Export.ImageConcurrency = 4
	}
	if cfg.Export.ImageBaseURL == "" {
		cfg.Export.ImageBaseURL = "http://localhost:" + cfg.App.Port
	}
	if cfg.Export.PublicBaseURL == "" {
		cfg.Export.PublicBaseURL = "http://localhost:" + cfg.App.Port
	}
	if cfg.Export.QREndpoint == "" {
		cfg.Export.QREndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	}
	if cfg.Export.QRSize == 0 {
		cfg.Export.QRSize = 120
	}
	if cfg.Export.Archive.Driver == "" {
		cfg.Export.Archive.Driver = ArchiveNone
	}
	if cfg.Export.Archive.Path == "" {
		cfg.Export.Archive.Path = "./data/exports"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "shipdocs"
	}
	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.Telemetry.ServiceName
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}
	// Note: Insecure defaults to false for safety (TLS enabled by default)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreFirestore:
		if c.Store.Firestore.ProjectID == "" {
			return fmt.Errorf("store.firestore.project_id is required for the firestore store")
		}
	case StoreMongo, StorePostgres:
	default:
		return fmt.Errorf("store.driver must be one of firestore, mongo, postgres, got %q", c.Store.Driver)
	}

	if c.Store.Driver == StorePostgres {
		if c.Store.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("store.database.max_open_conns must be positive")
		}
		if c.Store.Database.MaxIdleConns < 0 {
			return fmt.Errorf("store.database.max_idle_conns cannot be negative")
		}
		if c.Store.Database.MaxIdleConns > c.Store.Database.MaxOpenConns {
			return fmt.Errorf("store.database.max_idle_conns (%d) cannot exceed store.database.max_open_conns (%d)",
				c.Store.Database.MaxIdleConns, c.Store.Database.MaxOpenConns)
		}
	}

	if c.Export.GuardDriver != GuardMemory && c.Export.GuardDriver != GuardRedis {
		return fmt.Errorf("export.guard_driver must be memory or redis, got %q", c.Export.GuardDriver)
	}
	if c.Cache.Driver != GuardMemory && c.Cache.Driver != GuardRedis {
		return fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver)
	}
	if c.Export.ImageConcurrency < 0 {
		return fmt.Errorf("export.image_concurrency cannot be negative")
	}
	if _, err := url.Parse(c.Export.PublicBaseURL); err != nil {
		return fmt.Errorf("export.public_base_url is invalid: %w", err)
	}

	switch c.Export.Archive.Driver {
	case ArchiveNone, ArchiveFilesystem:
	case ArchiveS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 archive")
		}
	case ArchiveGCS:
		if c.GCS.Bucket == "" {
			return fmt.Errorf("gcs.bucket is required for the gcs archive")
		}
	default:
		return fmt.Errorf("export.archive.driver must be one of none, filesystem, s3, gcs, got %q", c.Export.Archive.Driver)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Store.Driver == StorePostgres {
			if c.Store.Database.Password == "" {
				return fmt.Errorf("store.database.password is required in production")
			}
			if c.Store.Database.SSLMode == "disable" {
				return fmt.Errorf("store.database.sslmode cannot be 'disable' in production")
			}
		}
		if c.Store.Firestore.EmulatorHost != "" {
			return fmt.Errorf("store.firestore.emulator_host must be empty in production")
		}
		if strings.HasPrefix(c.Export.PublicBaseURL, "http://localhost") {
			return fmt.Errorf("export.public_base_url must be set in production, QR codes would point to localhost")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}
