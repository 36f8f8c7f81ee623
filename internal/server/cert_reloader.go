package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
	"resumetwin/internal/observability"
)

// Certificates expiring sooner than this are reported unhealthy.
const (
	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// CertReloader serves the current TLS certificate and reloads it from disk
// when the certificate, key or CA files change.
type CertReloader struct {
	mu      sync.RWMutex
	cert    *tls.Certificate
	caPool  *x509.CertPool
	expiry  time.Time
	lastErr error

	reloads  int64
	failures int64
	lastLoad time.Time

	cfg     config.TLSConfig
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	om     *observability.ObservabilityManager
	logger *errors.Logger
}

// NewCertReloader loads the configured certificate once. Call Start to watch files.
func NewCertReloader(cfg config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) (*CertReloader, error) {
	cr := &CertReloader{cfg: cfg, om: om, logger: logger}
	if err := cr.Reload(); err != nil {
		return nil, err
	}
	return cr, nil
}

// Reload reads the certificate material again and swaps it in on success.
func (cr *CertReloader) Reload() error {
	cert, err := loadKeyPair(cr.cfg)
	var pool *x509.CertPool
	if err == nil && cr.cfg.Mode == "mutual" {
		pool, err = loadCAPool(cr.cfg)
	}
	var expiry time.Time
	if err == nil {
		expiry, err = leafExpiry(cert)
	}

	cr.mu.Lock()
	cr.reloads++
	cr.lastLoad = time.Now()
	cr.lastErr = err
	if err != nil {
		cr.failures++
	} else {
		cr.cert = cert
		cr.caPool = pool
		cr.expiry = expiry
	}
	cr.mu.Unlock()

	if cr.om != nil {
		cr.om.GetMetrics().RecordCertReload(context.Background(), err == nil, time.Until(expiry).Seconds(), cr.om)
	}
	if err != nil {
		return fmt.Errorf("failed to load TLS certificates: %w", err)
	}
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (cr *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	if cr.cert == nil {
		return nil, fmt.Errorf("no server certificate loaded")
	}
	return cr.cert, nil
}

// ClientCAs returns the CA pool used to verify client certificates.
func (cr *CertReloader) ClientCAs() *x509.CertPool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.caPool
}

// TimeToExpiry returns how long the current leaf certificate stays valid.
func (cr *CertReloader) TimeToExpiry() time.Duration {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return time.Until(cr.expiry)
}

// Start watches the certificate files until Stop. Content supplied inline
// (from Vault) has nothing to watch and is loaded once.
func (cr *CertReloader) Start() error {
	files := cr.watchedFiles()
	if len(files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// watch directories so atomic replace-by-rename is noticed
	dirs := map[string]bool{}
	for _, f := range files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	cr.mu.Lock()
	if cr.watcher != nil {
		cr.mu.Unlock()
		_ = watcher.Close()
		return fmt.Errorf("certificate watcher already started")
	}
	done := make(chan struct{})
	cr.watcher = watcher
	cr.done = done
	cr.mu.Unlock()

	cr.wg.Add(1)
	go cr.watchLoop(watcher, files, done)

	cr.logger.Info("Certificate file watcher started", "files", files, "debounce_delay", cr.debounceDelay())
	return nil
}

// Stop ends file watching. The reloader can be started again afterwards.
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	watcher, done := cr.watcher, cr.done
	cr.watcher, cr.done = nil, nil
	cr.mu.Unlock()
	if watcher == nil {
		return nil
	}

	close(done)
	err := watcher.Close()
	cr.wg.Wait()
	return err
}

func (cr *CertReloader) watchLoop(watcher *fsnotify.Watcher, files []string, done <-chan struct{}) {
	defer cr.wg.Done()

	watched := map[string]bool{}
	for _, f := range files {
		watched[filepath.Clean(f)] = true
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !watched[filepath.Clean(event.Name)] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cr.debounceDelay())
			} else {
				timer.Reset(cr.debounceDelay())
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cr.logger.Warn("Certificate watcher error", "error", err.Error())
		case <-fire:
			fire = nil
			if err := cr.Reload(); err != nil {
				cr.logger.LogError(err, "Failed to reload TLS certificates")
			} else {
				cr.logger.Info("TLS certificates reloaded successfully", "expires_in", cr.TimeToExpiry().String())
			}
		}
	}
}

func (cr *CertReloader) watchedFiles() []string {
	if !cr.cfg.AutoReload.Enabled {
		return nil
	}
	var files []string
	for _, f := range []string{cr.cfg.CertFile, cr.cfg.KeyFile, cr.cfg.CAFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

func (cr *CertReloader) debounceDelay() time.Duration {
	if cr.cfg.AutoReload.DebounceDelay > 0 {
		return cr.cfg.AutoReload.DebounceDelay
	}
	return time.Second
}

// Status summarises certificate health for the health endpoint.
func (cr *CertReloader) Status() map[string]any {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	status := map[string]any{
		"auto_reload":   cr.watcher != nil,
		"reload_count":  cr.reloads,
		"failure_count": cr.failures,
		"last_reload":   cr.lastLoad,
	}
	if cr.lastErr != nil {
		status["last_error"] = cr.lastErr.Error()
	}

	remaining := time.Until(cr.expiry)
	status["time_to_expiry_hours"] = int(remaining.Hours())

	switch {
	case cr.cert == nil:
		status["healthy"], status["status"] = false, "missing"
	case remaining <= 0:
		status["healthy"], status["status"] = false, "expired"
	case remaining <= certCriticalThreshold:
		status["healthy"], status["status"] = false, "critical"
	case remaining <= certWarningThreshold:
		status["healthy"], status["status"] = true, "warning"
	default:
		status["healthy"], status["status"] = true, "ok"
	}
	return status
}

func loadKeyPair(cfg config.TLSConfig) (*tls.Certificate, error) {
	var cert tls.Certificate
	var err error
	switch {
	case cfg.CertContent != "" && cfg.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
	case cfg.CertFile != "" && cfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	default:
		return nil, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}
	return &cert, nil
}

func loadCAPool(cfg config.TLSConfig) (*x509.CertPool, error) {
	var pemData []byte
	switch {
	case cfg.CAContent != "":
		pemData = []byte(cfg.CAContent)
	case cfg.CAFile != "":
		data, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pemData = data
	default:
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("failed to append CA cert")
	}
	return pool, nil
}

func leafExpiry(cert *tls.Certificate) (time.Time, error) {
	if cert.Leaf != nil {
		return cert.Leaf.NotAfter, nil
	}
	if len(cert.Certificate) == 0 {
		return time.Time{}, fmt.Errorf("certificate chain is empty")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse leaf certificate: %w", err)
	}
	return leaf.NotAfter, nil
}
