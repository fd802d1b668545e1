package formats

import (
	"encoding/csv"
	"io"

	"github.com/cube2222/shaclplan/execution"
)

type CSVFormatter struct {
	writer *csv.Writer
	width  int
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{
		writer: csv.NewWriter(w),
	}
}

func (t *CSVFormatter) Write(row *execution.Row) error {
	if t.width == 0 {
		t.width = row.Len()
		if err := t.writer.Write(columnNames(t.width)); err != nil {
			return err
		}
	}
	return t.writer.Write(rowTexts(row, t.width))
}

func (t *CSVFormatter) Close() error {
	t.writer.Flush()
	return t.writer.Error()
}
