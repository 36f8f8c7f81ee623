package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumetwin/internal/errors"
	"resumetwin/internal/storage"
)

// breakerReporter is implemented by mailers that expose their circuit breaker state.
type breakerReporter interface {
	BreakerState() string
}

// healthHandler reports reference data readability, mail breaker state and
// certificate expiry. Unreadable data or failing certificates answer 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumetwin",
		"version": s.Version,
	}
	healthy := true

	if s.RefData != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
		defer cancel()
		if err := s.RefData.Check(ctx); err != nil {
			healthy = false
			response["reference_data"] = map[string]any{"available": false, "error": err.Error()}
		} else {
			response["reference_data"] = map[string]any{"available": true}
		}
	}

	if reporter, ok := s.Mailer.(breakerReporter); ok {
		response["mail"] = map[string]any{
			"enabled":         s.AppConfig != nil && s.AppConfig.Mail.Enabled,
			"circuit_breaker": reporter.BreakerState(),
		}
	}

	if s.CertReloader != nil {
		certStatus := s.CertReloader.Status()
		response["certificates"] = certStatus
		if ok, _ := certStatus["healthy"].(bool); !ok {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (s *Server) healthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return 5 * time.Second
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumetwin",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
			"cors_enabled":           s.CORS.Enabled,
		},
	}

	if s.AppConfig != nil {
		storageStats := map[string]any{"backend": s.AppConfig.Storage.Backend}
		if s.Store != nil {
			ok, err := s.Store.Exists(r.Context(), storage.LatestReportKey)
			if err != nil {
				s.Logger.LogError(err, "Failed to check latest report")
			}
			storageStats["latest_report_available"] = ok
		}
		response["storage"] = storageStats
		response["mail"] = map[string]any{"enabled": s.AppConfig.Mail.Enabled}
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// statusForError maps an application error type to an HTTP status.
func statusForError(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeIO:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeNetwork:
		return http.StatusBadGateway
	case errors.ErrorTypeMail:
		if appErr.Code == errors.ErrCodeCircuitOpen {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError logs err and writes it with the status text as "error" and
// the human readable text as "message".
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "status", status)
	}

	resp := ErrorResponse{Error: http.StatusText(status), Message: err.Error()}
	if appErr, ok := errors.As(err); ok {
		resp.Message = appErr.Message
		resp.Code = appErr.Code
	}
	writeJSON(w, status, resp)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
