package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/config"
	httpapi "github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/api/http"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/auth"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/rolegate"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/routes"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/services"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNotAuthenticated = errors.New("not logged in, run `dashboard login`")

// App is the wired client: one session, one navigation router gated by the
// session role, and the API services.
type App struct {
	Config   *config.Config
	Runtime  *config.RuntimeConfig
	Logger   *zap.Logger
	Session  *session.Session
	Store    session.TokenStore
	Router   *routes.Router
	Gate     *rolegate.Watcher
	Auth     *auth.Authenticator
	Services *services.Services
	Registry *prometheus.Registry

	redis *redis.Client
}

// New wires the app. The runtime configuration is loaded first and any
// failure there aborts; then the persisted session is restored and the role
// gate attached.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	runtime, err := config.LoadRuntime(ctx, cfg.API.ConfigURL, &http.Client{})
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Runtime:  runtime,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := app.openStore(); err != nil {
		return nil, err
	}

	app.Session = session.New(cfg.API.RolesNamespace, logger.Named("session"))
	if err := app.Session.Restore(ctx, app.Store); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = routes.NewRouter(routes.DefaultTable(), app.Session.Authenticated, logger.Named("router"))
	app.Gate = rolegate.NewWatcher(app.Router, logger.Named("rolegate"))
	app.Gate.Attach(app.Session)
	app.Gate.Apply(app.Session.Role())

	app.Auth = auth.New(runtime.Auth0, cfg.Auth.ClientSecret, app.Session, app.Store, logger.Named("auth"))

	client := services.NewClient(cfg.API.BaseURL, app.Session,
		services.WithPersistedToken(app.Store),
		services.WithMetrics(services.NewMetrics(app.Registry)),
		services.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		services.WithLogger(logger.Named("api")),
	)
	app.Services = services.New(client)

	return app, nil
}

func (a *App) openStore() error {
	switch a.Config.Session.Store {
	case config.TokenStoreRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		a.Store = session.NewRedisStore(a.redis, a.Config.Session.Profile)
	default:
		path := a.Config.Session.TokenFile
		if path == "" {
			p, err := session.DefaultTokenPath(a.Config.Session.Profile)
			if err != nil {
				return err
			}
			path = p
		}
		a.Store = session.NewFileStore(path)
	}
	return nil
}

// Pinger returns the token store as a health probe, or nil for local stores.
func (a *App) Pinger() httpapi.Pinger {
	if p, ok := a.Store.(httpapi.Pinger); ok {
		return p
	}
	return nil
}

// Navigate pushes path and fails when the route is missing or has been
// gated away for the current role.
func (a *App) Navigate(path string) (routes.Match, error) {
	m, err := a.Router.Push(path)
	if err != nil {
		return m, err
	}
	if m.Pattern == routes.LoginPath && path != routes.LoginPath {
		return m, ErrNotAuthenticated
	}
	if m.Fallback() {
		return m, fmt.Errorf("%s: %w", path, routes.ErrRouteNotFound)
	}
	return m, nil
}

func (a *App) Close() error {
	if a.Gate != nil {
		a.Gate.Detach()
	}
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
