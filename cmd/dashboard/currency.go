package main

import (
	"fmt"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/currency"
	"github.com/spf13/cobra"
)

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Format amounts the way the dashboard displays them",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "format <amount>...",
			Short:   "Format amounts with grouping and two decimals",
			Example: "  dashboard currency format 1234.5   # 1,234.50",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, a := range args {
					fmt.Fprintln(cmd.OutOrStdout(), currency.Format(a))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "plain <display>...",
			Short:   "Convert displayed amounts back to plain numbers",
			Example: "  dashboard currency plain 1,234.50   # 1234.5",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var bad []string
				for _, a := range args {
					p, ok := currency.Plain(a)
					if !ok {
						bad = append(bad, a)
						p = a
					}
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				if len(bad) > 0 {
					return fmt.Errorf("not a number: %q", bad)
				}
				return nil
			},
		},
	)
	return cmd
}
