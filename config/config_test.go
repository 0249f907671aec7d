package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("env values and defaults", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://api.example.com")
		t.Setenv("REDIS_DB", "not-a-number")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
		assert.Equal(t, "https://ci.com.au", cfg.API.RolesNamespace)
		assert.Equal(t, TokenStoreFile, cfg.Session.Store)
		assert.Equal(t, 0, cfg.Redis.DB)
		assert.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("missing base url", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		_, err := Load("")
		assert.ErrorContains(t, err, "API_BASE_URL")
	})

	t.Run("unknown token store", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://api.example.com")
		t.Setenv("TOKEN_STORE", "memory")
		_, err := Load("")
		assert.ErrorContains(t, err, "TOKEN_STORE")
	})

	t.Run("yaml profile overlays env", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://env.example.com")
		t.Setenv("TOKEN_STORE", "")
		path := filepath.Join(t.TempDir(), "staging.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://staging.example.com
session:
  store: redis
  profile: staging
redis:
  addr: redis:6379
  db: 2
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
		assert.Equal(t, TokenStoreRedis, cfg.Session.Store)
		assert.Equal(t, "staging", cfg.Session.Profile)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
	})

	t.Run("unreadable profile", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://api.example.com")
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadRuntime(t *testing.T) {
	ctx := context.Background()

	t.Run("over http", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"auth0":{"domain":"tenant.au.auth0.com","clientId":"cid","audience":"https://api"}}`))
		}))
		defer server.Close()

		rc, err := LoadRuntime(ctx, server.URL+"/config.json", nil)
		require.NoError(t, err)
		assert.Equal(t, "tenant.au.auth0.com", rc.Auth0.Domain)
		assert.Equal(t, "cid", rc.Auth0.ClientID)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"auth0":{"domain":"d","clientId":"c","audience":"a"}}`), 0o600))
		rc, err := LoadRuntime(ctx, path, nil)
		require.NoError(t, err)
		assert.Equal(t, "a", rc.Auth0.Audience)
	})

	failures := map[string]func(t *testing.T) string{
		"empty source": func(t *testing.T) string { return "" },
		"missing file": func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
		"bad status": func(t *testing.T) string {
			server := httptest.NewServer(http.NotFoundHandler())
			t.Cleanup(server.Close)
			return server.URL
		},
		"not json": func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(`<html>`), 0o600))
			return path
		},
		"missing fields": func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(`{"auth0":{"domain":"d"}}`), 0o600))
			return path
		},
	}
	for name, source := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRuntime(ctx, source(t), nil)
			var cerr *ConfigurationError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestRenderRuntimeTemplate(t *testing.T) {
	env := map[string]string{
		"AUTH0_APP_DOMAIN":    "tenant.au.auth0.com",
		"AUTH0_APP_CLIENT_ID": "cid",
	}
	out := RenderRuntimeTemplate([]byte(DefaultRuntimeTemplate), func(k string) string { return env[k] })

	assert.JSONEq(t, `{"auth0":{"domain":"tenant.au.auth0.com","clientId":"cid","audience":""}}`, string(out))
}
