package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_FromFileEnvAndFlags(t *testing.T) {
	dir := chdirTemp(t)
	cfgYAML := `
api:
  catalog_file: routes.yaml
  timeout: 5s
  max_redirects: 3
cookies:
  backend: memory
  values:
    token: abc
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfgYAML), 0o644))
	t.Setenv("SPECFETCH_API_BASE_URL", "https://env.example.com")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse([]string{"--mode", "http"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "routes.yaml", cfg.API.CatalogFile)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.MaxRedirects)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, ServerModeHTTP, cfg.Server.Mode)
	assert.Equal(t, "abc", cfg.Cookies.Values["token"])
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SPECFETCH_API_OPENAPI_FILE", "openapi.json")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "openapi.json", cfg.API.OpenAPIFile)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10, cfg.API.MaxRedirects)
	assert.Equal(t, int64(32<<20), cfg.API.MaxResponseBytes)
	assert.Equal(t, CookieBackendMemory, cfg.Cookies.Backend)
	assert.Equal(t, ServerModeSTDIO, cfg.Server.Mode)
}

func TestLoad_KeyringPasswordFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SPECFETCH_API_CATALOG_FILE", "routes.yaml")
	t.Setenv("SPECFETCH_COOKIES_BACKEND", "keyring")
	t.Setenv("SPECFETCH_COOKIES_KEYRING_PASSWORD", "s3cret")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, CookieBackendKeyring, cfg.Cookies.Backend)
	assert.Equal(t, "specfetch", cfg.Cookies.Keyring.Service)
	assert.Equal(t, "s3cret", cfg.Cookies.Keyring.Password)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing catalog",
			cfg:     Config{Cookies: CookieConfig{Backend: CookieBackendMemory}},
			wantErr: true,
		},
		{
			name: "both catalogs",
			cfg: Config{
				API:     APIConfig{CatalogFile: "a", OpenAPIFile: "b"},
				Cookies: CookieConfig{Backend: CookieBackendMemory},
			},
			wantErr: true,
		},
		{
			name: "redis without addr",
			cfg: Config{
				API:     APIConfig{CatalogFile: "a"},
				Cookies: CookieConfig{Backend: CookieBackendRedis},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			cfg: Config{
				API:     APIConfig{CatalogFile: "a"},
				Cookies: CookieConfig{Backend: "vault"},
			},
			wantErr: true,
		},
		{
			name: "negative response cap",
			cfg: Config{
				API:     APIConfig{CatalogFile: "a", MaxResponseBytes: -1},
				Cookies: CookieConfig{Backend: CookieBackendMemory},
			},
			wantErr: true,
		},
		{
			name: "valid",
			cfg: Config{
				API:     APIConfig{CatalogFile: "a"},
				Cookies: CookieConfig{Backend: CookieBackendJar},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
