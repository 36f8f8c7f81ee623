package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
)

func selfSigned(t *testing.T, validFor time.Duration) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(validFor),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
}

func writeCertFiles(t *testing.T, dir string, validFor time.Duration) config.TLSConfig {
	t.Helper()
	certPEM, keyPEM := selfSigned(t, validFor)
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	return config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile}
}

func TestCertReloaderLoadsFiles(t *testing.T) {
	cfg := writeCertFiles(t, t.TempDir(), 30*24*time.Hour)

	cr, err := NewCertReloader(cfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)

	cert, err := cr.GetCertificate(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)

	status := cr.Status()
	assert.Equal(t, true, status["healthy"])
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, int64(1), status["reload_count"])
}

func TestCertReloaderFromContent(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, 3*24*time.Hour)
	cr, err := NewCertReloader(config.TLSConfig{
		Mode:        "mutual",
		CertContent: string(certPEM),
		KeyContent:  string(keyPEM),
		CAContent:   string(certPEM),
	}, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)

	assert.NotNil(t, cr.ClientCAs())
	assert.Equal(t, "warning", cr.Status()["status"])

	// inline content has nothing to watch
	require.NoError(t, cr.Start())
	assert.Equal(t, false, cr.Status()["auto_reload"])
	require.NoError(t, cr.Stop())
}

func TestCertReloaderExpiringSoonIsUnhealthy(t *testing.T) {
	cfg := writeCertFiles(t, t.TempDir(), time.Hour)

	cr, err := NewCertReloader(cfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)

	status := cr.Status()
	assert.Equal(t, false, status["healthy"])
	assert.Equal(t, "critical", status["status"])
}

func TestCertReloaderKeepsOldCertificateOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := writeCertFiles(t, dir, 30*24*time.Hour)

	cr, err := NewCertReloader(cfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)
	before, err := cr.GetCertificate(nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfg.CertFile, []byte("garbage"), 0o600))
	require.Error(t, cr.Reload())

	after, err := cr.GetCertificate(nil)
	require.NoError(t, err)
	assert.Same(t, before, after)

	status := cr.Status()
	assert.Equal(t, int64(1), status["failure_count"])
	assert.Contains(t, status["last_error"], "failed to load server cert/key")
}

func TestCertReloaderWatchesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := writeCertFiles(t, dir, 30*24*time.Hour)
	cfg.AutoReload = config.AutoReloadConfig{Enabled: true, DebounceDelay: 20 * time.Millisecond}

	cr, err := NewCertReloader(cfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)
	require.NoError(t, cr.Start())
	t.Cleanup(func() { _ = cr.Stop() })
	before, _ := cr.GetCertificate(nil)

	writeCertFiles(t, dir, 60*24*time.Hour)

	assert.Eventually(t, func() bool {
		after, _ := cr.GetCertificate(nil)
		return after != before
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCertReloaderRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := writeCertFiles(t, dir, 30*24*time.Hour)
	cfg.AutoReload = config.AutoReloadConfig{Enabled: true, DebounceDelay: 20 * time.Millisecond}

	cr, err := NewCertReloader(cfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)

	require.NoError(t, cr.Start())
	assert.ErrorContains(t, cr.Start(), "already started")
	require.NoError(t, cr.Stop())
	require.NoError(t, cr.Stop())

	// a restarted watcher still picks up rotated files
	require.NoError(t, cr.Start())
	t.Cleanup(func() { _ = cr.Stop() })
	before, _ := cr.GetCertificate(nil)

	writeCertFiles(t, dir, 60*24*time.Hour)

	assert.Eventually(t, func() bool {
		after, _ := cr.GetCertificate(nil)
		return after != before
	}, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, cr.Stop())
}

func TestCertReloaderMissingMaterial(t *testing.T) {
	_, err := NewCertReloader(config.TLSConfig{Mode: "server"}, nil, errors.NewLogger(slog.LevelError))
	assert.ErrorContains(t, err, "TLS certificate and key are required")

	certPEM, keyPEM := selfSigned(t, time.Hour*48)
	_, err = NewCertReloader(config.TLSConfig{Mode: "mutual", CertContent: string(certPEM), KeyContent: string(keyPEM)},
		nil, errors.NewLogger(slog.LevelError))
	assert.ErrorContains(t, err, "CA certificate is required")
}

func TestBuildTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, 30*24*time.Hour)
	tlsCfg := config.TLSConfig{
		Mode:             "mutual",
		CertContent:      string(certPEM),
		KeyContent:       string(keyPEM),
		CAContent:        string(certPEM),
		MinVersion:       "1.3",
		ClientAuthPolicy: "verify",
		CipherSuites:     []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", "NOT_A_SUITE"},
	}
	cr, err := NewCertReloader(tlsCfg, nil, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)

	s := &Server{TLSConfig: tlsCfg, CertReloader: cr}
	got, err := s.buildTLSConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(tls.VersionTLS13), got.MinVersion)
	assert.Equal(t, tls.VerifyClientCertIfGiven, got.ClientAuth)
	assert.Equal(t, []uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256}, got.CipherSuites)
	assert.NotNil(t, got.ClientCAs)
	assert.NotNil(t, got.GetConfigForClient)
}

func TestConfigureTLSRejectsUnknownMode(t *testing.T) {
	s := &Server{TLSConfig: config.TLSConfig{Mode: "sometimes"}}
	err := s.configureTLS(nil, nil)
	assert.ErrorContains(t, err, "invalid TLS mode")
}
