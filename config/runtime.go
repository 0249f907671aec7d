package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// RuntimeConfig is the identity-provider document fetched at startup.
type RuntimeConfig struct {
	Auth0 Auth0Config `json:"auth0"`
}

type Auth0Config struct {
	Domain   string `json:"domain"`
	ClientID string `json:"clientId"`
	Audience string `json:"audience"`
}

// ConfigurationError means the runtime configuration could not be obtained.
// Startup must stop when it is returned.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration loading failed (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// LoadRuntime reads the runtime document from an http(s) URL or a file path.
// Every failure comes back as *ConfigurationError.
func LoadRuntime(ctx context.Context, source string, hc *http.Client) (*RuntimeConfig, error) {
	fail := func(err error) (*RuntimeConfig, error) {
		return nil, &ConfigurationError{Source: source, Err: err}
	}

	if strings.TrimSpace(source) == "" {
		return fail(fmt.Errorf("no runtime configuration source set (CONFIG_URL)"))
	}

	var raw []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if hc == nil {
			hc = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return fail(fmt.Errorf("create request: %w", err))
		}
		resp, err := hc.Do(req)
		if err != nil {
			return fail(fmt.Errorf("fetch: %w", err))
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fail(fmt.Errorf("fetch returned status %d", resp.StatusCode))
		}
		if raw, err = io.ReadAll(resp.Body); err != nil {
			return fail(fmt.Errorf("read body: %w", err))
		}
	} else {
		var err error
		if raw, err = os.ReadFile(source); err != nil {
			return fail(fmt.Errorf("read file: %w", err))
		}
	}

	var rc RuntimeConfig
	if err := json.Unmarshal(raw, &rc); err != nil {
		return fail(fmt.Errorf("parse: %w", err))
	}
	if err := rc.Validate(); err != nil {
		return fail(err)
	}
	return &rc, nil
}

func (rc *RuntimeConfig) Validate() error {
	var missing []string
	if rc.Auth0.Domain == "" {
		missing = append(missing, "auth0.domain")
	}
	if rc.Auth0.ClientID == "" {
		missing = append(missing, "auth0.clientId")
	}
	if rc.Auth0.Audience == "" {
		missing = append(missing, "auth0.audience")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// DefaultRuntimeTemplate is served when no template file is configured.
const DefaultRuntimeTemplate = `{
  "auth0": {
    "domain": "$AUTH0_APP_DOMAIN",
    "clientId": "$AUTH0_APP_CLIENT_ID",
    "audience": "$AUTH0_APP_AUDIENCE"
  }
}
`

var templateVars = []string{"AUTH0_APP_DOMAIN", "AUTH0_APP_CLIENT_ID", "AUTH0_APP_AUDIENCE"}

// RenderRuntimeTemplate replaces each $AUTH0_APP_* placeholder with the value
// lookup returns for it. Unset variables become "".
func RenderRuntimeTemplate(tmpl []byte, lookup func(string) string) []byte {
	if lookup == nil {
		lookup = os.Getenv
	}
	out := tmpl
	for _, name := range templateVars {
		out = bytes.ReplaceAll(out, []byte("$"+name), []byte(lookup(name)))
	}
	return out
}
