package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/services"
	"github.com/spf13/cobra"
)

func usersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage dashboard users",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.page(cmd, "/users")
				if err != nil {
					return err
				}
				q, err := load(cmd.Context(), c.log(), app.Services.Users.GetAll)
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data)
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := args[0]
				app, err := c.page(cmd, "/users/"+id)
				if err != nil {
					return err
				}
				q, err := load(cmd.Context(), c.log(), func(ctx context.Context) (*schema.User, error) {
					return app.Services.Users.Get(ctx, id)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data)
			},
		},
		&cobra.Command{
			Use:   "me",
			Short: "Show the signed-in user's profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.page(cmd, "/")
				if err != nil {
					return err
				}
				q, err := load(cmd.Context(), c.log(), app.Services.Users.Me)
				if err != nil {
					return err
				}
				return printJSON(cmd, q.State().Data)
			},
		},
		usersCreateCmd(c),
		usersUpdateCmd(c),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := args[0]
				app, err := c.page(cmd, "/users/"+id)
				if err != nil {
					return err
				}
				raw, err := mutate(cmd.Context(), app.Services.Users.Delete, id)
				if err != nil {
					return err
				}
				return printRaw(cmd, raw, "Deleted user "+id)
			},
		},
		usersAvatarCmd(c),
	)
	return cmd
}

func usersCreateCmd(c *cli) *cobra.Command {
	var (
		file     string
		template bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/users/new")
			if err != nil {
				return err
			}
			if template {
				return printJSON(cmd, schema.EmptyUser())
			}
			u, err := readUser(cmd, file)
			if err != nil {
				return err
			}
			created, err := mutate(cmd.Context(), app.Services.Users.Create, u)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "User JSON file, - for stdin")
	cmd.Flags().BoolVar(&template, "template", false, "Print an empty user document instead")
	return cmd
}

func usersUpdateCmd(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			app, err := c.page(cmd, "/users/"+id)
			if err != nil {
				return err
			}
			u, err := readUser(cmd, file)
			if err != nil {
				return err
			}
			updated, err := mutate(cmd.Context(), func(ctx context.Context, u *schema.User) (*schema.User, error) {
				return app.Services.Users.Update(ctx, id, u)
			}, u)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "User JSON file, - for stdin")
	return cmd
}

func usersAvatarCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a profile image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/")
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			upload, err := mutate(cmd.Context(), func(ctx context.Context, name string) (*services.AvatarUpload, error) {
				return app.Services.Users.UploadAvatar(ctx, name, f)
			}, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), upload.ImageURL)
			return nil
		},
	}
}

func organisationsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "organisations",
		Short: "List the organisations a client user can belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.page(cmd, "/users/new")
			if err != nil {
				return err
			}
			q, err := load(cmd.Context(), c.log(), app.Services.Preferences.GetOrganisations)
			if err != nil {
				return err
			}
			return printJSON(cmd, q.State().Data)
		},
	}
}

func readUser(cmd *cobra.Command, file string) (*schema.User, error) {
	raw, err := readInput(cmd, file)
	if err != nil {
		return nil, err
	}
	u, err := schema.ParseUser(raw)
	if err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}
