package server

import "fmt"

// displayServerInfo prints a startup banner describing the listener and its guards.
func (s *Server) displayServerInfo(tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	fmt.Printf("Starting server on %s://%s:%s\n", scheme, s.Host, s.Port)
	switch s.TLSConfig.Mode {
	case "server":
		fmt.Println("TLS mode: Server-only (no client certificates required)")
	case "mutual":
		fmt.Println("TLS mode: Mutual (client certificates required)")
	default:
		fmt.Println("TLS mode: Disabled (HTTP only)")
	}
	if s.CertReloader != nil && s.TLSConfig.AutoReload.Enabled {
		fmt.Println("TLS auto-reload: ENABLED (file watching)")
	}

	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health           - Health check")
	fmt.Println("  GET  /stats            - Server statistics")
	fmt.Println("  GET  /roles            - Roles with skill and roadmap data")
	fmt.Println("  POST /upload           - Upload and analyze a resume (multipart field 'resume')")
	fmt.Println("  POST /download-report  - Render the ATS report PDF")
	fmt.Println("  POST /send-email       - Email the last generated report")
	fmt.Println("  POST /suggest-skills   - Skill gap for a target role")
	fmt.Println("  POST /growth-path      - Career roadmap matching the resume")
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to the analysis endpoints")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
	}
}
