package main

import (
	"context"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/spf13/cobra"
)

func benchmarksCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "benchmarks",
		Aliases: []string{"benchmark"},
		Short:   "Manage cost benchmarks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List benchmarks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.page(cmd, "/benchmarks")
				if err != nil {
					return err
				}
				q, err := load(cmd.Context(), c.log(), app.Services.Benchmarks.GetAll)
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data)
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one benchmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := args[0]
				app, err := c.page(cmd, "/benchmarks/"+id)
				if err != nil {
					return err
				}
				q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.Benchmark, error) {
					return app.Services.Benchmarks.Get(ctx, id)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data)
			},
		},
		benchmarksCreateCmd(c),
		benchmarksUpdateCmd(c),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a benchmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := args[0]
				app, err := c.page(cmd, "/benchmarks/"+id)
				if err != nil {
					return err
				}
				raw, err := mutate(cmd.Context(), app.Services.Benchmarks.Delete, id)
				if err != nil {
					return err
				}
				return printRaw(cmd, raw, "Deleted benchmark "+id)
			},
		},
	)
	return cmd
}

func benchmarksCreateCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a benchmark from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/benchmarks/new")
			if err != nil {
				return err
			}
			b, err := readBenchmark(cmd, file)
			if err != nil {
				return err
			}
			created, err := mutate(cmd.Context(), app.Services.Benchmarks.Create, b)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Benchmark JSON file, - for stdin")
	return cmd
}

func benchmarksUpdateCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/benchmarks/"+id)
			if err != nil {
				return err
			}
			b, err := readBenchmark(cmd, file)
			if err != nil {
				return err
			}
			updated, err := mutate(cmd.Context(), func(ctx context.Context, b *schema.Benchmark) (*schema.Benchmark, error) {
				return app.Services.Benchmarks.Update(ctx, id, b)
			}, b)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Benchmark JSON file, - for stdin")
	return cmd
}

func readBenchmark(cmd *cobra.Command, file string) (*schema.Benchmark, error) {
	raw, err := readInput(cmd, file)
	if err != nil {
		return nil, err
	}
	b, err := schema.ParseBenchmark(raw)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
