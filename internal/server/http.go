package server

import (
	"context"
	"time"

	"resumetwin/internal/analysis"
	"resumetwin/internal/config"
	"resumetwin/internal/errors"
	"resumetwin/internal/mailer"
	"resumetwin/internal/report"
	"resumetwin/internal/storage"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ReferenceChecker verifies that the reference datasets can be read.
type ReferenceChecker interface {
	Check(ctx context.Context) error
}

// Dependencies are the domain services the HTTP handlers call into.
type Dependencies struct {
	Analyzer *analysis.Service
	RefData  ReferenceChecker
	Store    storage.BlobStore
	Reports  *report.Generator
	Mailer   mailer.Mailer
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig    config.TLSConfig
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upper bound for request bodies, uploads included
	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	CORS config.CORSConfig

	Analyzer *analysis.Service
	RefData  ReferenceChecker
	Store    storage.BlobStore
	Reports  *report.Generator
	Mailer   mailer.Mailer

	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
	CORS           config.CORSConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		CORS:           cfg.CORS,
		Analyzer:       deps.Analyzer,
		RefData:        deps.RefData,
		Store:          deps.Store,
		Reports:        deps.Reports,
		Mailer:         deps.Mailer,
		Logger:         logger,
	}
}

// ConfigFromApp derives a ServerConfig from the application configuration.
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
		CORS:           cfg.Server.CORS,
	}
}
