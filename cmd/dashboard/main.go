// Package main provides the dashboard binary: a command line client for the
// project dashboard API and the shell server for browser front ends.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/bootstrap"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "dashboard"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	err := rootCmd(c).ExecuteContext(ctx)
	c.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Project dashboard client",
		Long: `Dashboard is a command line client for the project dashboard API.

Each command maps onto a dashboard page. Pages are gated by the role carried
in the signed-in user's token, so a member cannot reach the users pages and a
client cannot edit projects or their metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env := os.Getenv("APP_ENV")
			logger, err := logging.New(c.logLevel, env)
			if err != nil {
				return err
			}
			c.logger = logger
			bootstrap.SetGinMode(env)
			return nil
		},
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML profile overlaying environment configuration")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", level, "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		loginCmd(c),
		logoutCmd(c),
		whoamiCmd(c),
		projectsCmd(c),
		benchmarksCmd(c),
		usersCmd(c),
		organisationsCmd(c),
		currencyCmd(),
		serveCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// cli holds the flags shared by every command and the lazily built app.
type cli struct {
	configPath string
	logLevel   string

	logger *zap.Logger
	app    *bootstrap.App
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil && c.logger != nil {
			c.logger.Warn("close app", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
