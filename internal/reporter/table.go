package reporter

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

func newTableWriter(writer io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// PrintSummary renders both count tables aligned for a terminal.
func PrintSummary(w io.Writer, tags *types.TagCounts, ports *types.PortProtocolCounts) {
	tagTable := newTableWriter(w)
	tagTable.SetHeader([]string{"Tag", "Count"})
	tags.Range(func(tag string, count uint64) bool {
		tagTable.Append([]string{tag, strconv.FormatUint(count, 10)})
		return true
	})
	tagTable.Render()

	io.WriteString(w, "\n")

	portTable := newTableWriter(w)
	portTable.SetHeader([]string{"Port", "Protocol", "Count"})
	ports.Range(func(key types.PortProtocol, count uint64) bool {
		portTable.Append([]string{key.Port, key.Protocol, strconv.FormatUint(count, 10)})
		return true
	})
	portTable.Render()
}
