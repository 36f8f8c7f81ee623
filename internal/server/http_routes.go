package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"resumetwin/internal/observability"
)

const tracerName = "resumetwin.api"

// Handler returns the complete HTTP handler: routes, CORS and OpenTelemetry.
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	return om.HTTPMiddleware()(s.corsMiddleware(s.setupRoutes(om)))
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return s.rateLimitMiddleware(om)(s.authMiddleware(s.requestSizeLimitMiddleware(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("GET /roles", protect(s.createRolesHandler(om)))
	mux.HandleFunc("POST /upload", protect(s.createUploadHandler(om)))
	mux.HandleFunc("POST /download-report", protect(s.createDownloadReportHandler(om)))
	mux.HandleFunc("POST /send-email", protect(s.createSendEmailHandler(om)))
	mux.HandleFunc("POST /suggest-skills", protect(s.createSuggestSkillsHandler(om)))
	mux.HandleFunc("POST /growth-path", protect(s.createGrowthPathHandler(om)))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		}
		next(w, r)
	}
}

var (
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "X-API-Key"}
	exposedCORSHeaders = "Content-Disposition, X-Report-ID"
)

// corsMiddleware answers preflight requests and tags responses for allowed origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	if !s.CORS.Enabled {
		return next
	}

	wildcard := slices.Contains(s.CORS.AllowedOrigins, "*")
	headers := s.CORS.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (wildcard || slices.Contains(s.CORS.AllowedOrigins, origin)) {
			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Expose-Headers", exposedCORSHeaders)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
				if s.CORS.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(int(s.CORS.MaxAge.Seconds())))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requestAPIKey reads X-API-Key, falling back to an Authorization bearer token.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
