package formats

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/rdf"
)

// Formatter prints result rows. Close must be called after the last row.
type Formatter interface {
	Write(row *execution.Row) error
	Close() error
}

func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	default:
		return nil, errors.Errorf("unknown output format '%s'", name)
	}
}

func columnNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("column_%d", i)
	}
	return out
}

// termText renders IRIs in angle brackets, so they can't be confused with
// plain literals.
func termText(term rdf.Term) string {
	if term.Kind() == rdf.KindIRI {
		return "<" + term.String() + ">"
	}
	return term.String()
}

func rowTexts(row *execution.Row, width int) []string {
	out := make([]string, width)
	for i := 0; i < row.Len() && i < width; i++ {
		out[i] = termText(row.At(i))
	}
	return out
}
