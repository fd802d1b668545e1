package execution

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/cube2222/shaclplan/rdf"
)

// ShapeRef identifies the shape or constraint a row is attributed to. It is
// carried along, never interpreted.
type ShapeRef string

// Row is an ordered tuple of terms flowing through a plan. Its terms are
// fixed at construction, only the provenance can grow.
type Row struct {
	terms []rdf.Term

	history  []*Row
	causedBy []ShapeRef
}

// NewRow panics when given no terms. Rows are at least one column wide.
func NewRow(terms ...rdf.Term) *Row {
	if len(terms) == 0 {
		panic("row without terms")
	}
	return &Row{terms: terms}
}

func (row *Row) Len() int {
	return len(row.terms)
}

func (row *Row) At(i int) rdf.Term {
	return row.terms[i]
}

func (row *Row) Terms() []rdf.Term {
	out := make([]rdf.Term, len(row.terms))
	copy(out, row.terms)
	return out
}

// Key is the leading column.
func (row *Row) Key() rdf.Term {
	return row.terms[0]
}

func (row *Row) Equal(other *Row) bool {
	if len(row.terms) != len(other.terms) {
		return false
	}
	for i := range row.terms {
		if !rdf.Equal(row.terms[i], other.terms[i]) {
			return false
		}
	}
	return true
}

// Compare orders rows column by column by the string form of their terms,
// up to the length of the shorter row. This is the merge order of every
// join, union and unique node.
func (row *Row) Compare(other *Row) int {
	n := len(row.terms)
	if len(other.terms) < n {
		n = len(other.terms)
	}
	for i := 0; i < n; i++ {
		if c := rdf.Compare(row.terms[i], other.terms[i]); c != 0 {
			return c
		}
	}
	return 0
}

// CompareKey compares only the leading columns.
func (row *Row) CompareKey(other *Row) int {
	return rdf.Compare(row.terms[0], other.terms[0])
}

// compareFull is Compare with shorter rows ordered first on a shared prefix.
func (row *Row) compareFull(other *Row) int {
	if c := row.Compare(other); c != 0 {
		return c
	}
	return len(row.terms) - len(other.terms)
}

func (row *Row) Hash() uint64 {
	h := xxhash.New()
	for _, term := range row.terms {
		_, _ = h.WriteString(term.Kind().String())
		_, _ = h.WriteString(term.String())
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// History lists the rows which contributed to this one.
func (row *Row) History() []*Row {
	return row.history
}

func (row *Row) AddHistory(rows ...*Row) {
	row.history = append(row.history, rows...)
}

// CausedBy returns the attributed shapes, most recent first.
func (row *Row) CausedBy() []ShapeRef {
	return row.causedBy
}

func (row *Row) PushCausedBy(ref ShapeRef) {
	row.causedBy = append([]ShapeRef{ref}, row.causedBy...)
}

// InheritFrom returns a copy of the row extended with the provenance of
// other. Attributions of other count as more recent.
func (row *Row) InheritFrom(other *Row) *Row {
	out := &Row{
		terms:    row.terms,
		history:  make([]*Row, 0, len(row.history)+1),
		causedBy: make([]ShapeRef, 0, len(row.causedBy)+len(other.causedBy)),
	}
	out.history = append(out.history, row.history...)
	out.history = append(out.history, other)
	out.causedBy = append(out.causedBy, other.causedBy...)
	out.causedBy = append(out.causedBy, row.causedBy...)
	return out
}

// Concat joins two rows sharing their leading column. The right leading
// column is dropped.
func (row *Row) Concat(right *Row) *Row {
	terms := make([]rdf.Term, 0, len(row.terms)+len(right.terms)-1)
	terms = append(terms, row.terms...)
	terms = append(terms, right.terms[1:]...)

	out := &Row{
		terms:   terms,
		history: []*Row{row, right},
	}
	out.causedBy = append(out.causedBy, right.causedBy...)
	out.causedBy = append(out.causedBy, row.causedBy...)
	return out
}

// Trim projects the row onto the given column indices.
func (row *Row) Trim(columns ...int) *Row {
	terms := make([]rdf.Term, len(columns))
	for i, column := range columns {
		terms[i] = row.terms[column]
	}
	return &Row{
		terms:    terms,
		history:  []*Row{row},
		causedBy: row.causedBy,
	}
}

func (row *Row) String() string {
	parts := make([]string, len(row.terms))
	for i, term := range row.terms {
		parts[i] = term.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
