package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/offroutechronicles/offroute-server/internal/service"
)

func (a *App) destinationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "destinations",
		Aliases: []string{"dest"},
		Short:   "Read destinations",
	}

	var q service.DestinationQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stories := a.stories()
			res := service.NewDestinationService(a.data, nil, stories, a.logger.Logger).List(cmd.Context(), q)

			out := cmd.OutOrStdout()
			table := newTable(out, "ID", "Name", "Country", "Category", "Continent")
			for _, d := range res.Value {
				table.Append([]string{d.ID, d.Name, d.Country, d.Category, d.Continent})
			}
			table.Render()
			fmt.Fprintf(out, "%d destinations, source %s\n", len(res.Value), sourceBadge(res.Source))
			return nil
		},
	}
	list.Flags().StringVar(&q.Category, "category", "", "Category filter")
	list.Flags().StringVar(&q.Continent, "continent", "", "Continent filter")

	cmd.AddCommand(list)
	return cmd
}
