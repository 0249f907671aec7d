package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func projectsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List, view and edit projects",
	}
	cmd.AddCommand(
		projectsListCmd(c),
		projectsShowCmd(c),
		projectsCreateCmd(c),
		projectsUpdateCmd(c),
		projectsDeleteCmd(c),
		projectsMetricsCmd(c),
		projectsCompleteCmd(c),
	)
	return cmd
}

func projectsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/projects")
			if err != nil {
				return err
			}
			q, err := load(cmd.Context(), c.log(), app.Services.Projects.GetAll)
			if err != nil {
				return err
			}
			return printJSON(cmd, q.State().Data)
		},
	}
}

func projectsShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/projects/"+id)
			if err != nil {
				return err
			}
			q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.Project, error) {
				return app.Services.Projects.Get(ctx, id)
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, q.State().Data)
		},
	}
}

func projectsCreateCmd(c *cli) *cobra.Command {
	var (
		file     string
		template bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/projects/new")
			if err != nil {
				return err
			}
			if template {
				return printJSON(cmd, schema.EmptyProject())
			}

			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			p, err := schema.ParseProject(raw)
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}

			created, err := mutate(cmd.Context(), app.Services.Projects.Create, p)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Project JSON file, - for stdin")
	cmd.Flags().BoolVar(&template, "template", false, "Print an empty project document instead")
	return cmd
}

func projectsUpdateCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Long: `Update a project. The JSON document is applied over the current project,
so it only needs the fields that change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/projects/"+id+"/edit")
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.Project, error) {
				return app.Services.Projects.Get(ctx, id)
			})
			if err != nil {
				return err
			}

			var patchErr error
			q.SetData(func(p **schema.Project) {
				patchErr = json.Unmarshal(raw, *p)
			})
			if patchErr != nil {
				return fmt.Errorf("apply changes: %w", patchErr)
			}
			p := q.State().Data
			if err := p.Validate(); err != nil {
				return err
			}

			updated, err := mutate(cmd.Context(), func(ctx context.Context, p *schema.Project) (*schema.Project, error) {
				return app.Services.Projects.Update(ctx, id, p)
			}, p)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Partial project JSON file, - for stdin")
	return cmd
}

func projectsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/projects/"+id+"/edit")
			if err != nil {
				return err
			}
			raw, err := mutate(cmd.Context(), app.Services.Projects.Delete, id)
			if err != nil {
				return err
			}
			return printRaw(cmd, raw, "Deleted project "+id)
		},
	}
}

func projectsMetricsCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "metrics <id>",
		Short: "Show or replace a project's metrics",
		Long: `Show a project's metrics, or replace them with --file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/projects/"+id+"/metrics")
			if err != nil {
				return err
			}

			if file == "" {
				q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.Project, error) {
					return app.Services.Projects.Get(ctx, id)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data.Metrics)
			}

			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			m, err := schema.Parse[schema.Metrics](raw)
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return err
			}

			out, err := mutate(cmd.Context(), func(ctx context.Context, m *schema.Metrics) (json.RawMessage, error) {
				return app.Services.Projects.UpdateMetrics(ctx, id, m)
			}, m)
			if err != nil {
				return err
			}
			return printRaw(cmd, out, "Updated metrics for project "+id)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Metrics JSON file, - for stdin")
	return cmd
}

func projectsCompleteCmd(c *cli) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a project as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			completed := time.Now()
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				completed = d
			}

			app, err := c.page(cmd, "/projects/"+id)
			if err != nil {
				return err
			}
			q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.Project, error) {
				return app.Services.Projects.Get(ctx, id)
			})
			if err != nil {
				return err
			}
			if q.State().Data.Completed() {
				fmt.Fprintf(cmd.OutOrStdout(), "Project %s is already completed\n", id)
				return nil
			}

			out, err := mutate(cmd.Context(), func(ctx context.Context, d time.Time) (json.RawMessage, error) {
				return app.Services.Projects.MarkAsCompleted(ctx, id, d)
			}, completed)
			if err != nil {
				return err
			}
			return printRaw(cmd, out, "Marked project "+id+" as completed")
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Completion date (YYYY-MM-DD), defaults to today")
	return cmd
}
