package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cube2222/shaclplan/rdf"
)

func TestRow_Compare(t *testing.T) {
	tests := []struct {
		name  string
		left  *Row
		right *Row
		want  int
	}{
		{name: "equal", left: row("a", "1"), right: row("a", "1"), want: 0},
		{name: "leading column", left: row("a", "9"), right: row("b", "1"), want: -1},
		{name: "second column", left: row("a", "2"), right: row("a", "1"), want: 1},
		{name: "shorter prefix", left: row("a"), right: row("a", "1"), want: 0},
		{name: "lexical", left: row("10"), right: row("9"), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.left.Compare(tt.right)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}

	assert.Zero(t, row("a", "2").CompareKey(row("a", "1")))
	assert.Negative(t, row("a").compareFull(row("a", "1")))
}

func TestRow_EqualAndHash(t *testing.T) {
	a := NewRow(rdf.IRI("x"), rdf.NewLiteral("1"))
	b := NewRow(rdf.IRI("x"), rdf.NewLiteral("1"))
	c := NewRow(rdf.IRI("x"), rdf.NewTypedLiteral("1", rdf.XSDInteger))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(row("x")))
}

func TestRow_Concat(t *testing.T) {
	left := row("a", "1")
	left.PushCausedBy("shape1")
	right := row("a", "10")
	right.PushCausedBy("shape2")

	joined := left.Concat(right)
	assert.Equal(t, "(a, 1, 10)", joined.String())
	assert.Equal(t, []*Row{left, right}, joined.History())
	assert.Equal(t, []ShapeRef{"shape2", "shape1"}, joined.CausedBy())
}

func TestRow_InheritFrom(t *testing.T) {
	left := row("a", "1")
	left.PushCausedBy("inner")
	right := row("a", "1")
	right.PushCausedBy("outer")

	out := left.InheritFrom(right)
	assert.True(t, out.Equal(left))
	assert.Equal(t, []*Row{right}, out.History())
	assert.Equal(t, []ShapeRef{"outer", "inner"}, out.CausedBy())
	assert.Empty(t, left.History(), "the original row is left untouched")
}

func TestRow_PushCausedBy(t *testing.T) {
	r := row("a")
	r.PushCausedBy("first")
	r.PushCausedBy("second")
	assert.Equal(t, []ShapeRef{"second", "first"}, r.CausedBy())
}

func TestRow_Trim(t *testing.T) {
	r := row("a", "b", "c")
	trimmed := r.Trim(2, 0)
	assert.Equal(t, "(c, a)", trimmed.String())
	assert.Equal(t, []*Row{r}, trimmed.History())
}

func TestNewRow_Empty(t *testing.T) {
	assert.Panics(t, func() { NewRow() })
}
