package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/config"
	httpapi "github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/api/http"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/bootstrap"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(c *cli) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shell server for browser front ends",
		Long: `Run the shell server. It serves /config.json rendered from CONFIG_TEMPLATE
and the AUTH0_APP_* variables, /routes/resolve for role gated navigation,
/health and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if port != "" {
				cfg.Server.Port = port
			}
			return serve(cmd.Context(), cfg, c.log())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default SHELL_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var store httpapi.Pinger
	if cfg.Session.Store == config.TokenStoreRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.Profile)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    appName,
		Version:        cfg.App.Version,
		RolesNamespace: cfg.API.RolesNamespace,
		ConfigTemplate: cfg.Server.ConfigTemplate,
		Store:          store,
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         logger.Named("shell"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("shell server listening", zap.String("addr", srv.Addr), zap.String("version", cfg.App.Version))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("shell server stopped")
	return nil
}
