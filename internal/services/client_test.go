package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/logging"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type memStore struct {
	token string
	err   error
}

func (m *memStore) Load(context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.token == "" {
		return "", session.ErrNoToken
	}
	return m.token, nil
}

func (m *memStore) Save(_ context.Context, token string, _ time.Time) error {
	m.token = token
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.token = ""
	return nil
}

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`["Acme"]`))
	})

	t.Run("session token and generated request id", func(t *testing.T) {
		svc := New(NewClient(server.URL, staticToken("session-tok")))
		_, err := svc.Preferences.GetOrganisations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer session-tok", got.Get("Authorization"))
		assert.Len(t, got.Get(RequestIDHeader), 36)
	})

	t.Run("request id from context", func(t *testing.T) {
		svc := New(NewClient(server.URL, staticToken("session-tok")))
		ctx := logging.WithRequestID(context.Background(), "rid-1")
		_, err := svc.Preferences.GetOrganisations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "rid-1", got.Get(RequestIDHeader))
	})

	t.Run("persisted token overrides session token", func(t *testing.T) {
		store := &memStore{token: "stored-tok"}
		svc := New(NewClient(server.URL, staticToken("session-tok"), WithPersistedToken(store)))
		_, err := svc.Preferences.GetOrganisations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer stored-tok", got.Get("Authorization"))
	})

	t.Run("empty store keeps session token", func(t *testing.T) {
		svc := New(NewClient(server.URL, staticToken("session-tok"), WithPersistedToken(&memStore{})))
		_, err := svc.Preferences.GetOrganisations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer session-tok", got.Get("Authorization"))
	})

	t.Run("failing store keeps session token", func(t *testing.T) {
		store := &memStore{err: errors.New("redis down")}
		svc := New(NewClient(server.URL, staticToken("session-tok"), WithPersistedToken(store)))
		_, err := svc.Preferences.GetOrganisations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer session-tok", got.Get("Authorization"))
	})
}

func TestClient_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   any
	}{
		{"json object body", http.StatusBadRequest, `{"name":"is required"}`, map[string]any{"name": "is required"}},
		{"plain text body", http.StatusForbidden, "forbidden", "forbidden"},
		{"empty body", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			svc := New(NewClient(server.URL, staticToken("t")))

			_, err := svc.Benchmarks.Get(context.Background(), "b1")
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.want, httpErr.Body)
			assert.False(t, httpErr.Transport())
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := New(NewClient(url, staticToken("t")))
	_, err := svc.Users.GetAll(context.Background())

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.True(t, httpErr.Transport())
	assert.Error(t, httpErr.Err)
}

func TestClient_RateLimit(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Write([]byte(`[]`))
	})

	svc := New(NewClient(server.URL, staticToken("t"), WithRateLimit(1, 1)))
	_, err := svc.Preferences.GetOrganisations(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = svc.Preferences.GetOrganisations(ctx)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.True(t, httpErr.Transport())
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestClient_LogLevels(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/benchmarks/broken":
			w.WriteHeader(http.StatusBadGateway)
		case "/benchmarks/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})

	core, logs := observer.New(zapcore.DebugLevel)
	svc := New(NewClient(server.URL, staticToken("t"), WithLogger(zap.New(core))))
	ctx := context.Background()

	_, err := svc.Benchmarks.Get(ctx, "broken")
	require.Error(t, err)
	_, err = svc.Benchmarks.Get(ctx, "missing")
	require.Error(t, err)
	_, err = svc.Benchmarks.Delete(ctx, "b1")
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "api returned status 502", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.True(t, strings.HasPrefix(entries[2].Message, "DELETE /benchmarks/b1 -> 200"))
	assert.Equal(t, "benchmarks.delete", entries[2].ContextMap()["operation"])
}

func TestClient_CustomHTTPClient(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	var used bool
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used = true
		return http.DefaultTransport.RoundTrip(r)
	})}
	svc := New(NewClient(server.URL, staticToken("t"), WithHTTPClient(hc)))

	_, err := svc.Preferences.GetOrganisations(context.Background())
	require.NoError(t, err)
	assert.True(t, used)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_Metrics(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/benchmarks/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[]`))
	})

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	svc := New(NewClient(server.URL, staticToken("t"), WithMetrics(m)))

	_, err := svc.Benchmarks.GetAll(context.Background())
	require.NoError(t, err)
	_, err = svc.Benchmarks.Get(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("benchmarks", "get_all", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("benchmarks", "get", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestProjectService_Get(t *testing.T) {
	fixture, err := os.ReadFile("testdata/project.json")
	require.NoError(t, err)

	t.Run("valid payload", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/projects/65f0c1", r.URL.Path)
			w.Write(fixture)
		})
		svc := New(NewClient(server.URL, staticToken("t")))

		p, err := svc.Projects.Get(context.Background(), "65f0c1")
		require.NoError(t, err)
		assert.Equal(t, "Western Highway Upgrade", p.Name)
		assert.Equal(t, 2024, p.CompletionDate.Year())
	})

	t.Run("malformed payload", func(t *testing.T) {
		broken := strings.Replace(string(fixture), `"region": "VIC",`, "", 1)
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(broken))
		})
		svc := New(NewClient(server.URL, staticToken("t")))

		_, err := svc.Projects.Get(context.Background(), "65f0c1")
		var verr *schema.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("region"))
	})

	t.Run("list is not validated", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"1","name":""}]`))
		})
		svc := New(NewClient(server.URL, staticToken("t")))

		list, err := svc.Projects.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "1", list[0].ID)
	})
}

func TestProjectService_MarkAsCompleted(t *testing.T) {
	var body map[string]any
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/projects/p1/completed", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":"p1","status":"completed"}`))
	})
	svc := New(NewClient(server.URL, staticToken("t")))

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out, err := svc.Projects.MarkAsCompleted(context.Background(), "p1", date)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"completionDate": "2025-03-01T00:00:00Z"}, body)
	assert.JSONEq(t, `{"id":"p1","status":"completed"}`, string(out))
}

func TestProjectService_UpdateMetrics(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/projects/p1/metrics", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	svc := New(NewClient(server.URL, staticToken("t")))

	m := schema.EmptyProject().Metrics
	_, err := svc.Projects.UpdateMetrics(context.Background(), "p1", &m)
	require.NoError(t, err)
}

func TestUserService_UploadAvatar(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/avatar", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile(AvatarFormField)
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		w.Write([]byte(`{"imageUrl":"https://cdn.example.com/me.png"}`))
	})
	svc := New(NewClient(server.URL, staticToken("t")))

	out, err := svc.Users.UploadAvatar(context.Background(), "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", out.ImageURL)
}

func TestUserService_MeAndDelete(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/me":
			w.Write([]byte(`{"id":"u1","type":"member","fullName":"Ann","email":"ann@example.com","bio":"hi"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/users/u1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	svc := New(NewClient(server.URL, staticToken("t")))

	me, err := svc.Users.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.UserTypeMember, me.Type)

	_, err = svc.Users.Delete(context.Background(), "u1")
	require.NoError(t, err)
}
