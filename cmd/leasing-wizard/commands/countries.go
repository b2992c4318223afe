package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"leasing-wizard/internal/leasing/countries"
)

func countriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the selectable countries",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, closeSource, err := countries.FromConfig(cfg, log)
			if err != nil {
				return err
			}
			defer closeSource()

			list, err := source.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load countries: %w", err)
			}
			countries.SortByName(list)
			for _, c := range list {
				fmt.Fprintln(cmd.OutOrStdout(), countries.DisplayName(c))
			}
			return nil
		},
	}
	return cmd
}
