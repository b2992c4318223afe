package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"leasing-wizard/internal/leasing/countries"
	"leasing-wizard/internal/leasing/submission"
	"leasing-wizard/internal/leasing/wizard"
	"leasing-wizard/internal/tui"
)

func runCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in a lease application",
		RunE: func(cmd *cobra.Command, args []string) error {
			var source countries.Source = countries.Europe
			if !offline {
				s, closeSource, err := countries.FromConfig(cfg, log)
				if err != nil {
					return err
				}
				defer closeSource()
				source = s
			}

			sink, closeSink, err := submission.FromConfig(cfg, log)
			if err != nil {
				return err
			}
			defer closeSink()

			ctrl := wizard.New(source, sink, wizard.WithLogger(log))
			final, err := tea.NewProgram(tui.New(cmd.Context(), ctrl), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("run wizard: %w", err)
			}

			if m, ok := final.(*tui.Model); ok {
				if ack, submitted := m.Ack(); submitted {
					fmt.Fprintf(cmd.OutOrStdout(), "Application submitted. Reference: %s\n", ack.Reference)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use the built-in country list")
	return cmd
}
