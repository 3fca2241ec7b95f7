package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/mock"
)

// seedConflict is the upsert key for seeded rows.
var seedConflict = []string{"id"}

func (a *App) seedCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the sample dataset into the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			data := mock.Default()

			if dryRun {
				for _, table := range domain.Tables() {
					fmt.Fprintf(out, "would upsert %d %s\n", len(data.Records(table)), table)
				}
				return nil
			}

			if !a.conn.Enabled() {
				return errors.New("seed needs a backend: set --backend-url or BACKEND_URL")
			}
			drv := a.conn.Connect(cmd.Context())
			if drv == nil {
				return fmt.Errorf("backend unavailable: %w", a.conn.Err())
			}

			for _, table := range domain.Tables() {
				rows := data.Records(table)
				for _, rec := range rows {
					if _, err := drv.Upsert(cmd.Context(), table, rec, seedConflict); err != nil {
						return fmt.Errorf("seed %s %v: %w", table, rec["id"], err)
					}
				}
				fmt.Fprintf(out, "upserted %d %s\n", len(rows), table)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be written without connecting")
	return cmd
}
