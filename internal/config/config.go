package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMETWIN_MAIL_PASSWORD, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Data          DataConfig          `mapstructure:"data"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Mail          MailConfig          `mapstructure:"mail"`
	Report        ReportConfig        `mapstructure:"report"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Open to half-open delay
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys; empty disables authentication
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	// PEM content, set when certificates come from Vault instead of files
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string   `mapstructure:"minVersion"`       // "1.2", "1.3"
	CipherSuites     []string `mapstructure:"cipherSuites"`     // optional allow list
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"` // "require", "request", "verify"

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig controls reloading certificate files when they change on disk
type AutoReloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// CORSConfig holds cross-origin settings for browser clients
type CORSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	AllowedHeaders []string      `mapstructure:"allowedHeaders"`
	MaxAge         time.Duration `mapstructure:"maxAge"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	PreviewLength    int      `mapstructure:"previewLength"` // characters of resume text echoed by /upload
}

// DataConfig locates the reference datasets
type DataConfig struct {
	CareerTwinsFile string `mapstructure:"careerTwinsFile"`
	SkillsDBFile    string `mapstructure:"skillsDBFile"`
	RoadmapFile     string `mapstructure:"roadmapFile"`
}

// StorageConfig selects where uploads and reports are kept
type StorageConfig struct {
	Backend string             `mapstructure:"backend"` // "local" or "s3"
	Local   LocalStorageConfig `mapstructure:"local"`
	S3      S3StorageConfig    `mapstructure:"s3"`
}

// LocalStorageConfig holds the local directory backend settings
type LocalStorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// S3StorageConfig holds the S3 compatible backend settings
type S3StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // optional, for MinIO and similar
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UsePathStyle    bool   `mapstructure:"usePathStyle"`
}

// MailConfig holds SMTP settings for sending reports
type MailConfig struct {
	Enabled        bool                 `mapstructure:"enabled"`
	Host           string               `mapstructure:"host"`
	Port           int                  `mapstructure:"port"`
	Username       string               `mapstructure:"username"`
	Password       string               `mapstructure:"password"`
	From           string               `mapstructure:"from"`
	Subject        string               `mapstructure:"subject"`
	Body           string               `mapstructure:"body"`
	AttachmentName string               `mapstructure:"attachmentName"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ReportConfig holds PDF report settings
type ReportConfig struct {
	Title    string `mapstructure:"title"`
	FileName string `mapstructure:"fileName"` // download name of the report
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCertExpiry bool `mapstructure:"trackCertExpiry"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

const envPrefix = "RESUMETWIN"

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Printf("[CONFIG] Configured environment variable handling with prefix '%s'", envPrefix)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumetwin/")
	v.AddConfigPath("$HOME/.resumetwin")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/resumetwin/, $HOME/.resumetwin, .")

	return loadFromViper(v)
}

// LoadConfigFile loads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	log.Printf("[CONFIG] Loading configuration from %s", path)

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)

	return loadFromViper(v)
}

func loadFromViper(v *viper.Viper) (*Config, error) {
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)
	config.checkReferenceData()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app.maxFileSize must be positive")
	}
	if c.App.PreviewLength < 0 {
		return fmt.Errorf("app.previewLength must not be negative")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	if err := c.validateStorage(); err != nil {
		return fmt.Errorf("storage configuration error: %w", err)
	}

	if err := c.validateMail(); err != nil {
		return fmt.Errorf("mail configuration error: %w", err)
	}

	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "local":
		if c.Storage.Local.Dir == "" {
			return fmt.Errorf("storage.local.dir is required for the local backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'local' or 's3')", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	if c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail.port: %d", c.Mail.Port)
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail.from is required when mail is enabled")
	}
	if c.Mail.CircuitBreaker.Enabled {
		if ft := c.Mail.CircuitBreaker.FailureThreshold; ft <= 0 || ft > 1 {
			return fmt.Errorf("mail.circuitBreaker.failureThreshold must be in (0, 1], got %v", ft)
		}
	}
	return nil
}
