package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumetwin/internal/observability"
)

// Start runs the HTTP server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(s.AppConfig, s.Version), s.AppConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer s.shutdownObservability(om)

	httpServer := s.newHTTPServer(om)
	if err := s.configureTLS(httpServer, om); err != nil {
		return err
	}

	s.displayServerInfo(httpServer.TLSConfig != nil)

	return s.startWithGracefulShutdown(httpServer)
}

func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

func (s *Server) newHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// certificates come from TLSConfig.GetCertificate
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.releaseResources()
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())
		return s.performGracefulShutdown(server)
	}
}

func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.Logger.Info("Shutting down HTTP server...")
	err := server.Shutdown(shutdownCtx)
	s.releaseResources()
	if err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// releaseResources stops the certificate watcher and the rate limiter janitor.
func (s *Server) releaseResources() {
	if s.CertReloader != nil {
		if err := s.CertReloader.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop certificate watcher")
		}
	}
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
