package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/config"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrNoClientSecret = errors.New("client credentials login needs AUTH0_CLIENT_SECRET")

var deviceScopes = []string{"openid", "profile", "email", "offline_access"}

// DevicePrompt shows the user where to approve a device login.
type DevicePrompt func(resp *oauth2.DeviceAuthResponse)

// Authenticator obtains tokens from the identity provider. It is the only
// writer of the session token.
type Authenticator struct {
	provider     config.Auth0Config
	clientSecret string
	session      *session.Session
	store        session.TokenStore
	logger       *zap.Logger
}

func New(provider config.Auth0Config, clientSecret string, s *session.Session, store session.TokenStore, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		provider:     provider,
		clientSecret: clientSecret,
		session:      s,
		store:        store,
		logger:       logger,
	}
}

// issuer is the provider base URL. A bare domain means https.
func (a *Authenticator) issuer() string {
	d := strings.TrimRight(a.provider.Domain, "/")
	if strings.Contains(d, "://") {
		return d
	}
	return "https://" + d
}

func (a *Authenticator) deviceConfig() *oauth2.Config {
	base := a.issuer()
	return &oauth2.Config{
		ClientID:     a.provider.ClientID,
		ClientSecret: a.clientSecret,
		Scopes:       deviceScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:       base + "/authorize",
			TokenURL:      base + "/oauth/token",
			DeviceAuthURL: base + "/oauth/device/code",
		},
	}
}

// LoginDevice runs the device authorization flow: prompt is called with the
// verification URL and code, then the token endpoint is polled until the user
// approves or ctx ends.
func (a *Authenticator) LoginDevice(ctx context.Context, prompt DevicePrompt) error {
	cfg := a.deviceConfig()
	audience := oauth2.SetAuthURLParam("audience", a.provider.Audience)

	resp, err := cfg.DeviceAuth(ctx, audience)
	if err != nil {
		return fmt.Errorf("start device login: %w", err)
	}
	if prompt != nil {
		prompt(resp)
	}

	tok, err := cfg.DeviceAccessToken(ctx, resp, audience)
	if err != nil {
		return fmt.Errorf("device login: %w", err)
	}
	return a.accept(ctx, tok)
}

// LoginClientCredentials authenticates as a machine client.
func (a *Authenticator) LoginClientCredentials(ctx context.Context) error {
	if a.clientSecret == "" {
		return ErrNoClientSecret
	}
	cc := clientcredentials.Config{
		ClientID:       a.provider.ClientID,
		ClientSecret:   a.clientSecret,
		TokenURL:       a.issuer() + "/oauth/token",
		EndpointParams: url.Values{"audience": {a.provider.Audience}},
	}
	tok, err := cc.Token(ctx)
	if err != nil {
		return fmt.Errorf("client credentials login: %w", err)
	}
	return a.accept(ctx, tok)
}

func (a *Authenticator) accept(ctx context.Context, tok *oauth2.Token) error {
	if tok.AccessToken == "" {
		return errors.New("identity provider returned an empty access token")
	}
	a.session.SetToken(tok.AccessToken)
	a.logger.Info("logged in", zap.String("role", a.session.Role().String()), zap.Time("expires_at", tok.Expiry))

	if a.store == nil {
		return nil
	}
	if err := a.store.Save(ctx, tok.AccessToken, tok.Expiry); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Logout drops the token from the session and the store.
func (a *Authenticator) Logout(ctx context.Context) error {
	a.session.Clear()
	if a.store == nil {
		return nil
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted token: %w", err)
	}
	return nil
}
