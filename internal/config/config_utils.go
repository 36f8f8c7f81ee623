package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyMailDefaults()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks re-splits a comma-separated API key variable so
// that whitespace around each key is dropped.
func (c *Config) applyServerAPIKeyFallbacks() {
	if apiKeysEnv := os.Getenv(envPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
		c.Server.APIKeys = splitAndTrim(apiKeysEnv)
	}
}

// applyMailDefaults uses the SMTP username as sender when none is configured
func (c *Config) applyMailDefaults() {
	if c.Mail.From == "" && c.Mail.Username != "" {
		c.Mail.From = c.Mail.Username
	}
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}

	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// checkReferenceData warns about reference files that are not readable yet.
// They are read on every request, so a missing file is not fatal at startup.
func (c *Config) checkReferenceData() {
	for name, path := range c.ReferenceFiles() {
		if _, err := os.Stat(path); err != nil {
			log.Printf("[CONFIG] Warning: %s file %s is not readable: %v", name, path, err)
		}
	}
}

// ReferenceFiles returns the configured reference datasets keyed by name.
func (c *Config) ReferenceFiles() map[string]string {
	return map[string]string{
		"career twins": c.Data.CareerTwinsFile,
		"skills db":    c.Data.SkillsDBFile,
		"roadmap":      c.Data.RoadmapFile,
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		envPrefix + "_SERVER_PORT",
		envPrefix + "_SERVER_HOST",
		envPrefix + "_SERVER_APIKEYS",
		envPrefix + "_APP_LOGLEVEL",
		envPrefix + "_STORAGE_BACKEND",
		envPrefix + "_STORAGE_S3_SECRETACCESSKEY",
		envPrefix + "_MAIL_USERNAME",
		envPrefix + "_MAIL_PASSWORD",
		envPrefix + "_VAULT_ENABLED",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitiveEnv(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Storage Backend: %s", c.Storage.Backend)
	log.Printf("[CONFIG] Mail Enabled: %t (%s:%d)", c.Mail.Enabled, c.Mail.Host, c.Mail.Port)
	if c.Mail.Password != "" {
		log.Println("[CONFIG] Mail Password: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] Mail Password: ***NOT SET***")
	}
	log.Printf("[CONFIG] Career Twins: %s", c.Data.CareerTwinsFile)
	log.Printf("[CONFIG] Skills DB: %s", c.Data.SkillsDBFile)
	log.Printf("[CONFIG] Roadmap: %s", c.Data.RoadmapFile)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}

func isSensitiveEnv(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}
