package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/errors"
)

func newTestLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

type fakeSecrets map[string]*VaultSecret

func (f fakeSecrets) GetSecretV2(path string) (*VaultSecret, error) {
	s, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return s, nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/test")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	tests := []struct {
		name        string
		secret      *api.Secret
		expectError string
	}{
		{
			name: "valid",
			secret: &api.Secret{Data: map[string]any{
				"data":     map[string]any{"keys": "a,b"},
				"metadata": map[string]any{"version": float64(3)},
			}},
		},
		{
			name:        "missing data",
			secret:      &api.Secret{Data: map[string]any{"metadata": map[string]any{"version": 1}}},
			expectError: "missing 'data' field",
		},
		{
			name:        "missing metadata",
			secret:      &api.Secret{Data: map[string]any{"data": map[string]any{}}},
			expectError: "missing 'metadata' field",
		},
		{
			name: "missing version",
			secret: &api.Secret{Data: map[string]any{
				"data":     map[string]any{},
				"metadata": map[string]any{"other": "value"},
			}},
			expectError: "missing 'version' field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeKVv2(tt.secret, "secret/data/test")
			if tt.expectError != "" {
				assert.ErrorContains(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), got.Version)
			assert.Equal(t, "a,b", got.String("keys"))
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  s.file-token \n"), 0o600))

	token, err := resolveVaultToken(VaultConfig{Token: "s.direct"})
	require.NoError(t, err)
	assert.Equal(t, "s.direct", token)

	token, err = resolveVaultToken(VaultConfig{TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "s.file-token", token)

	_, err = resolveVaultToken(VaultConfig{TokenFile: filepath.Join(dir, "missing")})
	assert.Error(t, err)

	_, err = resolveVaultToken(VaultConfig{})
	assert.ErrorContains(t, err, "vault token is required")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{
		APIKeys:  "secret/data/resumetwin/api",
		SMTP:     "secret/data/resumetwin/smtp",
		S3:       "secret/data/resumetwin/s3",
		TLSCerts: "secret/data/resumetwin/tls",
	}}}
	reader := fakeSecrets{
		"secret/data/resumetwin/api":  {Data: map[string]any{"keys": "k1, k2 ,"}},
		"secret/data/resumetwin/smtp": {Data: map[string]any{"username": "reports@example.com", "password": "app-password"}},
		"secret/data/resumetwin/s3":   {Data: map[string]any{"access_key_id": "AKIA", "secret_access_key": "shh"}},
		"secret/data/resumetwin/tls":  {Data: map[string]any{"cert": "CERT", "key": "KEY"}},
	}

	require.NoError(t, applySecrets(reader, cfg, newTestLogger()))

	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "reports@example.com", cfg.Mail.Username)
	assert.Equal(t, "app-password", cfg.Mail.Password)
	assert.Equal(t, "AKIA", cfg.Storage.S3.AccessKeyID)
	assert.Equal(t, "shh", cfg.Storage.S3.SecretAccessKey)
	assert.Equal(t, "CERT", cfg.Server.TLS.CertContent)
	assert.Equal(t, "KEY", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
}

func TestApplySecretsSkipsUnconfiguredPaths(t *testing.T) {
	cfg := &Config{Mail: MailConfig{Password: "from-env"}}
	require.NoError(t, applySecrets(fakeSecrets{}, cfg, newTestLogger()))
	assert.Equal(t, "from-env", cfg.Mail.Password)
}

func TestApplySecretsFailsOnMissingSecret(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{SMTP: "secret/data/missing"}}}
	err := applySecrets(fakeSecrets{}, cfg, newTestLogger())
	assert.ErrorContains(t, err, "SMTP credentials")
}

func TestApplyTLSSecretRejectsDeprecatedFields(t *testing.T) {
	cfg := &Config{}
	_, err := applyTLSSecret(cfg, &VaultSecret{Data: map[string]any{"cert_file": "/etc/cert.pem"}})
	assert.ErrorContains(t, err, "'cert_file' field is no longer supported")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
}
