package server

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"resumetwin/internal/observability"
)

// configureTLS attaches a TLS configuration to httpServer according to the
// configured mode. Certificates are served through a CertReloader so that
// rotated files are picked up without a restart.
func (s *Server) configureTLS(httpServer *http.Server, om *observability.ObservabilityManager) error {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil
	case "server", "mutual":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	reloader, err := NewCertReloader(s.TLSConfig, om, s.Logger)
	if err != nil {
		return err
	}
	if err := reloader.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	s.CertReloader = reloader

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		_ = reloader.Stop()
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig
	return nil
}

// buildTLSConfig creates the TLS configuration from the loaded reloader.
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:     minTLSVersion(s.TLSConfig.MinVersion),
		CipherSuites:   cipherSuiteIDs(s.TLSConfig.CipherSuites),
		GetCertificate: s.CertReloader.GetCertificate,
		ClientAuth:     tls.NoClientCert,
	}

	if s.TLSConfig.Mode == "mutual" {
		pool := s.CertReloader.ClientCAs()
		if pool == nil {
			return nil, fmt.Errorf("CA certificate is required for mutual TLS mode")
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)

		// the pool changes on reload; hand each handshake the current one
		tlsConfig.GetConfigForClient = func(*tls.ClientHelloInfo) (*tls.Config, error) {
			cfg := tlsConfig.Clone()
			cfg.GetConfigForClient = nil
			cfg.ClientCAs = s.CertReloader.ClientCAs()
			return cfg, nil
		}
	}

	return tlsConfig, nil
}

func minTLSVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// cipherSuiteIDs maps configured names to IDs, skipping unknown or insecure ones.
func cipherSuiteIDs(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	known := make(map[string]uint16)
	for _, suite := range tls.CipherSuites() {
		known[suite.Name] = suite.ID
	}

	ids := make([]uint16, 0, len(names))
	for _, name := range names {
		if id, ok := known[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
