package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := &cli{}
	t.Cleanup(c.close)

	var out bytes.Buffer
	cmd := rootCmd(c)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dashboard version "+Version)
}

func TestCurrencyCmd(t *testing.T) {
	out, err := execute(t, "currency", "format", "1234.5", "abc")
	require.NoError(t, err)
	assert.Equal(t, "1,234.50\nNaN\n", out)

	out, err = execute(t, "currency", "plain", "1,234.50", "$0.00")
	require.NoError(t, err)
	assert.Equal(t, "1234.5\n0\n", out)

	_, err = execute(t, "currency", "plain", "n/a")
	assert.Error(t, err)
}

// dashboardEnv points the CLI at a fake API and runtime config, signed in
// with the given role.
func dashboardEnv(t *testing.T, role string) func() []string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "auth0|7"}
	claims[session.DefaultNamespace+"/roles"] = []any{role}
	claims[session.DefaultNamespace+"/email"] = "pm@example.com"
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	fixture, err := os.ReadFile(filepath.Join("..", "..", "internal", "services", "testdata", "project.json"))
	require.NoError(t, err)
	completed := strings.Replace(string(fixture), `"status": "active"`, `"status": "completed"`, 1)

	var (
		mu   sync.Mutex
		seen []string
	)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/projects":
			w.Write([]byte(`[{"id":"p1","name":"Western Road"}]`))
		case "/preferences/organisations":
			w.Write([]byte(`["Acme","Globex"]`))
		case "/projects/active":
			w.Write(fixture)
		case "/projects/done":
			w.Write([]byte(completed))
		case "/projects/active/completed":
			w.Write([]byte(`{"id":"active","status":"completed"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"no such resource"}`))
		}
	}))
	t.Cleanup(api.Close)

	runtimeCfg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"auth0":{"domain":"tenant.example.com","clientId":"cid","audience":"https://api"}}`))
	}))
	t.Cleanup(runtimeCfg.Close)

	tokenFile := filepath.Join(t.TempDir(), "default.token")
	require.NoError(t, session.NewFileStore(tokenFile).Save(context.Background(), token, time.Time{}))

	t.Setenv("API_BASE_URL", api.URL)
	t.Setenv("CONFIG_URL", runtimeCfg.URL)
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", tokenFile)
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

func TestPageCommands(t *testing.T) {
	t.Run("admin lists projects", func(t *testing.T) {
		seen := dashboardEnv(t, "admin")
		out, err := execute(t, "projects", "list")
		require.NoError(t, err)
		assert.Contains(t, out, `"name": "Western Road"`)
		assert.Equal(t, []string{"GET /projects"}, seen())
	})

	t.Run("whoami reports role", func(t *testing.T) {
		dashboardEnv(t, "member")
		out, err := execute(t, "whoami")
		require.NoError(t, err)
		assert.Contains(t, out, `"role": "member"`)
		assert.Contains(t, out, `"email": "pm@example.com"`)
	})

	t.Run("member cannot reach benchmarks", func(t *testing.T) {
		seen := dashboardEnv(t, "member")
		_, err := execute(t, "benchmarks", "list")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Empty(t, seen())
	})

	t.Run("client cannot edit projects", func(t *testing.T) {
		dashboardEnv(t, "client")
		_, err := execute(t, "projects", "delete", "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("api errors keep their body", func(t *testing.T) {
		dashboardEnv(t, "admin")
		_, err := execute(t, "benchmarks", "list")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such resource")
	})

	t.Run("admin lists organisations", func(t *testing.T) {
		dashboardEnv(t, "admin")
		out, err := execute(t, "organisations")
		require.NoError(t, err)
		assert.JSONEq(t, `["Acme","Globex"]`, out)
	})

	t.Run("complete marks an active project", func(t *testing.T) {
		seen := dashboardEnv(t, "admin")
		out, err := execute(t, "projects", "complete", "active", "--date", "2025-03-01")
		require.NoError(t, err)
		assert.Contains(t, out, `"status": "completed"`)
		assert.Equal(t, []string{"GET /projects/active", "PATCH /projects/active/completed"}, seen())
	})

	t.Run("complete skips a completed project", func(t *testing.T) {
		seen := dashboardEnv(t, "admin")
		out, err := execute(t, "projects", "complete", "done")
		require.NoError(t, err)
		assert.Contains(t, out, "Project done is already completed")
		assert.Equal(t, []string{"GET /projects/done"}, seen())
	})
}
