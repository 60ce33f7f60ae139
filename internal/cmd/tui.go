package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/maintenance-budget/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the asset in a terminal UI with a live budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, variant, err := o.resolveOutput()
			if err != nil {
				return err
			}
			in, err := o.resolveInput(cmd)
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(in, variant), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		},
	}
}
