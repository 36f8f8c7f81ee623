package config

import "fmt"

// pemSource is one PEM input that may come from a file or inline content.
type pemSource struct {
	name    string
	file    string
	content string
}

func (s pemSource) provided() bool {
	return s.file != "" || s.content != ""
}

func (s pemSource) ambiguous() bool {
	return s.file != "" && s.content != ""
}

func certSources(tls TLSConfig) (cert, key, ca pemSource) {
	return pemSource{"cert", tls.CertFile, tls.CertContent},
		pemSource{"key", tls.KeyFile, tls.KeyContent},
		pemSource{"ca", tls.CAFile, tls.CAContent}
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}
	return validateTLSVersion(tls.MinVersion)
}

// validateTLSMode checks that the PEM inputs required by the mode are present
// and that each one has exactly one source.
func validateTLSMode(tls TLSConfig) error {
	cert, key, ca := certSources(tls)

	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return validatePEMSources(tls.Mode, cert, key)
	case "mutual":
		if err := validatePEMSources(tls.Mode, cert, key, ca); err != nil {
			return err
		}
		return validateClientAuthPolicy(tls.ClientAuthPolicy)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

func validatePEMSources(mode string, sources ...pemSource) error {
	for _, s := range sources {
		if !s.provided() {
			return fmt.Errorf("TLS %s is required for %s mode (provide either %sFile or %sContent)", s.name, mode, s.name, s.name)
		}
		if s.ambiguous() {
			return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", s.name, s.name)
		}
	}
	return nil
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}
