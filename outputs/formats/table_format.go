package formats

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/cube2222/shaclplan/execution"
)

type TableFormatter struct {
	table *tablewriter.Table
	width int
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(24)
	table.SetRowLine(false)
	table.SetAutoFormatHeaders(false)

	return &TableFormatter{
		table: table,
	}
}

// Write sizes the header after the first row. Narrower rows are padded,
// wider ones cut.
func (t *TableFormatter) Write(row *execution.Row) error {
	if t.width == 0 {
		t.width = row.Len()
		t.table.SetHeader(columnNames(t.width))
	}
	t.table.Append(rowTexts(row, t.width))
	return nil
}

func (t *TableFormatter) Close() error {
	t.table.Render()
	return nil
}
