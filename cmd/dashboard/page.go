package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/config"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/bootstrap"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/fetch"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/routes"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// application loads configuration and wires the app once per process.
func (c *cli) application(ctx context.Context) (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app, err := bootstrap.New(ctx, cfg, c.log())
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

// page opens the app on path. Routes gated away for the current role, or
// never present, fail with "not found".
func (c *cli) page(cmd *cobra.Command, path string) (*bootstrap.App, error) {
	app, err := c.application(cmd.Context())
	if err != nil {
		return nil, err
	}
	if _, err := app.Navigate(path); err != nil {
		if errors.Is(err, routes.ErrRouteNotFound) {
			return nil, fmt.Errorf("not found: %s", path)
		}
		return nil, err
	}
	return app, nil
}

func (c *cli) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// load runs fn through a query binding and waits for it to settle.
func load[T any](ctx context.Context, logger *zap.Logger, fn func(ctx context.Context) (T, error)) (*fetch.Query[T], error) {
	q := fetch.NewQuery(ctx, fn, fetch.QueryOptions[T]{Logger: logger})
	if st := q.Wait(); st.Error != nil {
		return nil, payloadError(st.Error)
	}
	return q, nil
}

// mutate runs one write through a mutation binding.
func mutate[A, R any](ctx context.Context, fn func(ctx context.Context, arg A) (R, error), arg A) (R, error) {
	m := fetch.NewMutation(fn, fetch.MutationOptions[R]{})
	result, err := m.Mutate(ctx, arg)
	if err != nil {
		return result, payloadError(m.Error())
	}
	return result, nil
}

// payloadError turns a binding's error payload back into an error for the
// command line, keeping API bodies readable.
func payloadError(payload any) error {
	if err, ok := payload.(error); ok {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%v", payload)
	}
	return fmt.Errorf("request failed: %s", raw)
}

// readInput reads a JSON document from path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("--file is required (use - for stdin)")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRaw prints an API body that may be empty.
func printRaw(cmd *cobra.Command, raw json.RawMessage, fallback string) error {
	if len(raw) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), fallback)
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return err
	}
	return printJSON(cmd, v)
}
