package main

import (
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/specfetch/internal/catalog"
	"github.com/brizzai/specfetch/internal/tui"
)

func newAdjustCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Interactively choose exposed routes and edit their descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() {
				if r := recover(); r != nil {
					pterm.Error.Printf("\nCaught panic: %v\n", r)
					pterm.Error.Printf("%s\n", debug.Stack())
				}
			}()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := catalog.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.API.AdjustmentsFile
			}
			if output == "" {
				output = "adjustments.yaml"
			}

			p := tea.NewProgram(tui.NewAppModel(c, output), tea.WithAltScreen())
			m, err := p.Run()
			if err != nil {
				return err
			}

			final := m.(tui.AppModel)
			if !final.Exported() {
				return nil
			}
			kept := 0
			for _, item := range final.Items() {
				if !item.Hidden {
					kept++
				}
			}
			pterm.Info.Printfln("Processing complete. Kept %s routes out of %s.",
				pterm.LightGreen(kept),
				pterm.White(len(c.API.Routes)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Suggested adjustments file to write")
	return cmd
}
