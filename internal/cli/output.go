package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/offroutechronicles/offroute-server/internal/facade"
)

// sourceBadge colors a result source for terminal output.
func sourceBadge(src facade.Source) string {
	switch src {
	case facade.SourceRemote:
		return color.New(color.FgGreen, color.Bold).Sprint(src)
	case facade.SourceFallback:
		return color.New(color.FgYellow, color.Bold).Sprint(src)
	default:
		return color.New(color.FgCyan).Sprint(src)
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}
