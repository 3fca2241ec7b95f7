package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/offroutechronicles/offroute-server/internal/backend"
)

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if !a.conn.Enabled() {
				fmt.Fprintf(out, "Backend: %s (serving mock data)\n", backend.ModeDisabled)
				return nil
			}

			drv := a.conn.Connect(cmd.Context())
			if drv == nil {
				msg := "unknown error"
				if err := a.conn.Err(); err != nil {
					msg = err.Error()
				}
				fmt.Fprintf(out, "Backend: %s (%s)\n", color.RedString(string(a.conn.Mode())), msg)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			start := time.Now()
			if err := drv.Ping(ctx); err != nil {
				fmt.Fprintf(out, "Backend: %s, driver %s, ping failed: %v\n", color.YellowString(string(backend.ModeConnected)), drv.Name(), err)
				return nil
			}
			fmt.Fprintf(out, "Backend: %s, driver %s, ping %s\n",
				color.GreenString(string(backend.ModeConnected)), drv.Name(), time.Since(start).Round(time.Microsecond))
			return nil
		},
	}
}
