package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resumetwin/internal/mailer"
	"resumetwin/internal/report"
	"resumetwin/internal/server"
	"resumetwin/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the resume endpoints.

Available endpoints:
- POST /upload: Upload a resume (multipart field "resume") and get its ATS result and career twins
- POST /download-report: Render the ATS report PDF
- POST /send-email: Email the last generated report
- POST /suggest-skills: Skill gap for a job role
- POST /growth-path: Career path suggested by the roadmap
- GET /roles: Job roles of the skills database
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration.
func applyServeFlags(cmd *cobra.Command) error {
	v := viper.New()
	bindings := map[string]string{
		"port":      "port",
		"host":      "host",
		"tls-mode":  "tlsMode",
		"cert-file": "certFile",
		"key-file":  "keyFile",
		"ca-file":   "caFile",
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	set := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	set("port", &cfg.Server.Port)
	set("host", &cfg.Server.Host)
	set("tlsMode", &cfg.Server.TLS.Mode)
	set("certFile", &cfg.Server.TLS.CertFile)
	set("keyFile", &cfg.Server.TLS.KeyFile)
	set("caFile", &cfg.Server.TLS.CAFile)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := applyServeFlags(cmd); err != nil {
		return err
	}
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	refData := newReferenceStore(cfg, logger)
	if err := refData.Check(ctx); err != nil {
		logger.Warn("Reference data is not readable yet; affected endpoints will fail until it is", "error", err.Error())
	}

	deps := server.Dependencies{
		Analyzer: newAnalyzer(cfg, logger),
		RefData:  refData,
		Store:    store,
		Reports:  report.NewGenerator(cfg.Report.Title),
		Mailer:   mailer.New(cfg.Mail, logger),
	}
	return server.NewServer(cfg, server.ConfigFromApp(cfg, Version), deps, logger).Start()
}
