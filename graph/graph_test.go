package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	root := NewNode("inner join")
	root.AddField("discard", "right")

	left := NewNode("select")
	left.AddField("query", "{ ?s a <Person> . }")

	right := NewNode("unique")
	inner := NewNode("select")
	inner.AddField("query", "{ ?s <age> ?age . }")
	right.AddChild("source", inner)

	root.AddChild("left", left)
	root.AddChild("right", right)
	return root
}

func TestShow(t *testing.T) {
	g, err := Show(sampleTree())
	require.NoError(t, err)

	out := g.String()
	assert.Contains(t, out, "inner_join_0")
	assert.Contains(t, out, "select_0")
	assert.Contains(t, out, "select_1")
	assert.Contains(t, out, "unique_0")
	assert.Contains(t, out, `\{ ?s a \<Person\> . \}`)
	assert.Contains(t, out, "rankdir=LR")
}

func TestText(t *testing.T) {
	out := Text(sampleTree())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, []string{
		"inner join",
		"  discard = right",
		"  left: select",
		"    query = { ?s a <Person> . }",
		"  right: unique",
		"    source: select",
		"      query = { ?s <age> ?age . }",
	}, lines)
}
