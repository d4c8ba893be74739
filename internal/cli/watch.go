package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/backdrop/pkg/backdrop"
)

// watchCommand runs a spawner against an in-memory surface and shows it in
// the terminal.
func (c *CLI) watchCommand() *cobra.Command {
	width, height := float64(defaultWidth), float64(defaultHeight)
	var overrides *configFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Preview the spawner live in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(overrides)
			if err != nil {
				return err
			}

			surface := backdrop.NewMemorySurface(width, height, cfg.ContainerID)
			// Log lines would tear the full-screen view.
			sp, err := backdrop.New(cfg, cfg.Library(), surface, backdrop.WithLogger(log.New(io.Discard)))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := sp.Start(ctx); err != nil {
				return err
			}
			defer sp.Stop()

			p := tea.NewProgram(NewWatchModel(ctx, sp, width, height), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, tea.ErrProgramKilled) {
					return context.Canceled
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", width, "simulated display width in pixels")
	cmd.Flags().Float64Var(&height, "height", height, "simulated display height in pixels")
	overrides = addConfigFlags(cmd)

	return cmd
}
