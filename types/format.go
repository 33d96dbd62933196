package types

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// MarkdownTable renders rows as a markdown table. Rows shorter than header are
// padded with empty cells.
func MarkdownTable(header []string, rows [][]string) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header(cells(header, len(header))...)
	for _, row := range rows {
		_ = table.Append(cells(row, len(header))...)
	}
	_ = table.Render()
	return buf.String()
}

func cells(values []string, width int) []any {
	out := make([]any, width)
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = ""
		}
	}
	return out
}

// FormatMissingFields renders the fields still required by a step. It returns
// "" when nothing is missing.
func FormatMissingFields(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, []string{field.DisplayName, field.JSONPointer, field.Description})
	}
	return "# Missing required fields:\n" + MarkdownTable([]string{"Field", "Pointer", "Description"}, rows)
}
