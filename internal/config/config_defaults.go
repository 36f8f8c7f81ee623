package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second) // uploads and mail delivery
	v.SetDefault("server.idleTimeout", 120*time.Second)

	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{})
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.tls.autoReload.enabled", true)
	v.SetDefault("server.tls.autoReload.debounceDelay", time.Second)

	v.SetDefault("server.apiKeys", []string{})

	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// The browser client is served from another origin
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})
	v.SetDefault("server.cors.allowedHeaders", []string{"Content-Type", "Authorization", "X-API-Key"})
	v.SetDefault("server.cors.maxAge", 10*time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB
	v.SetDefault("app.previewLength", 1000)

	// Reference data
	v.SetDefault("data.careerTwinsFile", "data/career_twins.json")
	v.SetDefault("data.skillsDBFile", "data/skills_db.json")
	v.SetDefault("data.roadmapFile", "data/growth_roadmap.json")

	// Storage
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.dir", "uploads")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.accessKeyID", "")
	v.SetDefault("storage.s3.secretAccessKey", "")
	v.SetDefault("storage.s3.usePathStyle", false)

	// Mail
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.subject", "Your ATS Resume Report")
	v.SetDefault("mail.body", "Attached is your ATS resume report. Thank you for using ResumeTwin!")
	v.SetDefault("mail.attachmentName", "ATS_Report.pdf")
	v.SetDefault("mail.timeout", 30*time.Second)
	v.SetDefault("mail.circuitBreaker.enabled", true)
	v.SetDefault("mail.circuitBreaker.maxRequests", 1)
	v.SetDefault("mail.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("mail.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("mail.circuitBreaker.minRequests", 3)
	v.SetDefault("mail.circuitBreaker.failureThreshold", 0.6)

	// Report
	v.SetDefault("report.title", "ATS Resume Report")
	v.SetDefault("report.fileName", "ats_report.pdf")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.smtp", "")
	v.SetDefault("vault.secrets.s3", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumetwin")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCertExpiry", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 5*time.Second)
}
