package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/vault/api"

	"resumetwin/internal/errors"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault (KVv2 read paths)
type VaultSecrets struct {
	// APIKeys holds a "keys" field with comma-separated values, e.g. "key1,key2"
	APIKeys string `mapstructure:"apiKeys"`
	// SMTP holds "username" and "password" fields
	SMTP string `mapstructure:"smtp"`
	// S3 holds "access_key_id" and "secret_access_key" fields
	S3 string `mapstructure:"s3"`
	// TLSCerts holds "cert", "key" and optionally "ca" PEM content
	TLSCerts string `mapstructure:"tlsCerts"`
}

// secretReader reads KVv2 secrets. *VaultClient implements it.
type secretReader interface {
	GetSecretV2(path string) (*VaultSecret, error)
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration.
// It returns nil without error when Vault is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		return nil, nil
	}

	logger.Debug("Initializing Vault client",
		"address", config.Address,
		"namespace", config.Namespace,
		"token_file", config.TokenFile,
		"has_token", config.Token != "")

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", config.Address, err)
	}
	logger.Info("Successfully connected to Vault",
		"address", config.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// String returns the string field key, or "" when absent or not a string.
func (s *VaultSecret) String(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	vc.logger.Debug("Reading secret from Vault", "path", path)

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return decodeKVv2(secret, path)
}

// decodeKVv2 unpacks the data and metadata envelope of a KVv2 read.
func decodeKVv2(secret *api.Secret, path string) (*VaultSecret, error) {
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}

	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue parses version value from the JSON types Vault may return
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	logger.Info("Loading secrets from Vault",
		"api_keys_path", config.Vault.Secrets.APIKeys,
		"smtp_path", config.Vault.Secrets.SMTP,
		"s3_path", config.Vault.Secrets.S3,
		"tls_certs_path", config.Vault.Secrets.TLSCerts)

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	return applySecrets(client, config, logger)
}

type secretLoader struct {
	name  string
	path  string
	apply func(*Config, *VaultSecret) (int, error)
}

// applySecrets reads every configured secret path and applies it in turn.
func applySecrets(reader secretReader, config *Config, logger *errors.Logger) error {
	loaders := []secretLoader{
		{"API keys", config.Vault.Secrets.APIKeys, applyAPIKeysSecret},
		{"SMTP credentials", config.Vault.Secrets.SMTP, applySMTPSecret},
		{"S3 credentials", config.Vault.Secrets.S3, applyS3Secret},
		{"TLS certificates", config.Vault.Secrets.TLSCerts, applyTLSSecret},
	}

	for _, l := range loaders {
		if l.path == "" {
			continue
		}
		secret, err := reader.GetSecretV2(l.path)
		if err != nil {
			logger.LogError(err, "Failed to load secret from Vault", "secret", l.name, "path", l.path)
			return fmt.Errorf("failed to load %s from vault: %w", l.name, err)
		}
		applied, err := l.apply(config, secret)
		if err != nil {
			return fmt.Errorf("vault %s secret at %s: %w", l.name, l.path, err)
		}
		if applied == 0 {
			logger.Warn("Vault secret had no usable fields", "secret", l.name, "path", l.path)
			continue
		}
		logger.Info("Secret loaded from Vault", "secret", l.name, "fields", applied, "version", secret.Version)
	}

	logger.Info("Successfully completed applying secrets from Vault")
	return nil
}

func applyAPIKeysSecret(config *Config, secret *VaultSecret) (int, error) {
	keys := splitAndTrim(secret.String("keys"))
	if len(keys) == 0 {
		return 0, nil
	}
	config.Server.APIKeys = keys
	return len(keys), nil
}

func applySMTPSecret(config *Config, secret *VaultSecret) (int, error) {
	return setIfPresent(secret,
		field{"username", &config.Mail.Username},
		field{"password", &config.Mail.Password},
	), nil
}

func applyS3Secret(config *Config, secret *VaultSecret) (int, error) {
	return setIfPresent(secret,
		field{"access_key_id", &config.Storage.S3.AccessKeyID},
		field{"secret_access_key", &config.Storage.S3.SecretAccessKey},
	), nil
}

func applyTLSSecret(config *Config, secret *VaultSecret) (int, error) {
	for _, deprecated := range []string{"cert_file", "key_file", "ca_file"} {
		if _, has := secret.Data[deprecated]; has {
			return 0, fmt.Errorf("'%s' field is no longer supported. Store certificate content in '%s' field instead",
				deprecated, strings.TrimSuffix(deprecated, "_file"))
		}
	}
	return setIfPresent(secret,
		field{"cert", &config.Server.TLS.CertContent},
		field{"key", &config.Server.TLS.KeyContent},
		field{"ca", &config.Server.TLS.CAContent},
	), nil
}

type field struct {
	key    string
	target *string
}

func setIfPresent(secret *VaultSecret, fields ...field) int {
	n := 0
	for _, f := range fields {
		if v := secret.String(f.key); v != "" {
			*f.target = v
			n++
		}
	}
	return n
}
