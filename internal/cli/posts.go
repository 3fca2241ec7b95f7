package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

func (a *App) postsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read blog posts",
	}

	var (
		sort     string
		category string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.stories().List(cmd.Context(), service.StoryQuery{Sort: sort, Category: category})

			out := cmd.OutOrStdout()
			table := newTable(out, "ID", "Title", "Category", "Created", "Featured")
			for _, p := range res.Value {
				table.Append([]string{
					p.ID,
					p.Title,
					p.Category,
					p.CreatedDate.Format("2006-01-02"),
					strconv.FormatBool(p.Featured),
				})
			}
			table.Render()
			fmt.Fprintf(out, "%d posts, source %s\n", len(res.Value), sourceBadge(res.Source))
			return nil
		},
	}
	list.Flags().StringVar(&sort, "sort", facade.SortNewest, "Sort field")
	list.Flags().StringVar(&category, "category", "", "Category filter")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.stories().Get(cmd.Context(), args[0])
			p := res.Value

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", p.Title, strings.Repeat("=", len(p.Title)))
			fmt.Fprintf(out, "ID:        %s\n", p.ID)
			fmt.Fprintf(out, "Author:    %s\n", p.Author)
			fmt.Fprintf(out, "Category:  %s\n", p.Category)
			fmt.Fprintf(out, "Created:   %s\n", p.CreatedDate.Format("2006-01-02"))
			fmt.Fprintf(out, "Read time: %d min\n", p.DisplayReadTime())
			if p.Destination != "" {
				fmt.Fprintf(out, "Place:     %s\n", p.Destination)
			}
			fmt.Fprintf(out, "Source:    %s\n", sourceBadge(res.Source))
			if p.Excerpt != "" {
				fmt.Fprintf(out, "\n%s\n", p.Excerpt)
			}
			return nil
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
