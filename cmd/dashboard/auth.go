package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func loginCmd(c *cli) *cobra.Command {
	var clientCredentials bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the identity provider",
		Long: `Sign in with the identity provider.

By default this starts a device login: open the printed URL, confirm the code
and the command completes once the login is approved. Service accounts can use
--client-credentials together with AUTH0_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			if clientCredentials {
				err = app.Auth.LoginClientCredentials(cmd.Context())
			} else {
				err = app.Auth.LoginDevice(cmd.Context(), func(resp *oauth2.DeviceAuthResponse) {
					out := cmd.ErrOrStderr()
					if resp.VerificationURIComplete != "" {
						fmt.Fprintf(out, "Open %s to sign in.\n", resp.VerificationURIComplete)
					} else {
						fmt.Fprintf(out, "Open %s and enter the code %s.\n", resp.VerificationURI, resp.UserCode)
					}
				})
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in (role: %s)\n", app.Session.Role())
			return nil
		},
	}

	cmd.Flags().BoolVar(&clientCredentials, "client-credentials", false, "Use the client credentials flow")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

type whoami struct {
	Subject   string   `json:"subject"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role"`
	Roles     []string `json:"roles"`
	ExpiresAt string   `json:"expiresAt,omitempty"`
}

func whoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity and its role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			if !app.Session.Authenticated() {
				return fmt.Errorf("not logged in, run `%s login`", appName)
			}

			out := whoami{Role: app.Session.Role().String()}
			if claims := app.Session.Claims(); claims != nil {
				out.Subject = claims.Subject
				out.Email = claims.Email
				out.Roles = claims.Roles
				if !claims.ExpiresAt.IsZero() {
					out.ExpiresAt = claims.ExpiresAt.Format(time.RFC3339)
				}
			}
			return printJSON(cmd, out)
		},
	}
}
