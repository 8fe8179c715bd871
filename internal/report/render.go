package report

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// TerminalWidth returns the width of stdout, or 0 when not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// numericFrom marks the first right-aligned column for each report layout.
// Label columns stay left-aligned, counters and costs align right.
func numericFrom(headers []string) int {
	for i, h := range headers {
		switch h {
		case "Sessions", "Interactions", "Tokens", "Cost":
			return i
		}
	}
	return len(headers)
}

// Render writes rows as a bordered terminal table.
func Render(w io.Writer, rows Rows) error {
	return RenderWithFooter(w, rows, nil)
}

// RenderWithFooter renders rows with a totals line.
func RenderWithFooter(w io.Writer, rows Rows, footer []string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))

	table.Header(rows.Headers)

	numeric := numericFrom(rows.Headers)
	alignments := make([]tw.Align, len(rows.Headers))
	for i := range alignments {
		if i < numeric {
			alignments[i] = tw.AlignLeft
		} else {
			alignments[i] = tw.AlignRight
		}
	}
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.PerColumn = alignments
	})

	for _, row := range rows.Rows {
		table.Append(row)
	}
	if footer != nil {
		table.Footer(footer)
	}
	return table.Render()
}
