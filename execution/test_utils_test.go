package execution

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// row builds a row of IRIs whose string forms are the given values.
func row(values ...string) *Row {
	terms := make([]rdf.Term, len(values))
	for i, value := range values {
		terms[i] = rdf.IRI(value)
	}
	return NewRow(terms...)
}

func rows(values ...[]string) []*Row {
	out := make([]*Row, len(values))
	for i := range values {
		out[i] = row(values[i]...)
	}
	return out
}

func source(values ...[]string) *Rows {
	return NewRows(false, rows(values...)...)
}

func render(rows []*Row) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}

func collectStream(t *testing.T, stream RowStream) []string {
	t.Helper()
	out, err := iteration.Collect(stream)
	require.NoError(t, err)
	return render(out)
}

func collectNode(t *testing.T, ctx context.Context, node PlanNode) []string {
	t.Helper()
	stream, err := node.Get(ctx)
	require.NoError(t, err)
	return collectStream(t, stream)
}

// trackedNode counts streams it gave out and how many of them were closed.
type trackedNode struct {
	PlanNode
	gets, closes int
}

func track(node PlanNode) *trackedNode {
	return &trackedNode{PlanNode: node}
}

func (node *trackedNode) Get(ctx context.Context) (RowStream, error) {
	stream, err := node.PlanNode.Get(ctx)
	if err != nil {
		return nil, err
	}
	node.gets++
	return iteration.NewLookAheadFunc(
		func() (*Row, bool, error) {
			return iteration.Pull(stream)
		},
		func() error {
			node.closes++
			return stream.Close()
		},
	), nil
}

var errNodeFailure = errors.New("node failure")

type failingNode struct{}

func (failingNode) Get(ctx context.Context) (RowStream, error) {
	return nil, errNodeFailure
}

func (failingNode) Depth() int {
	return 1
}

func (failingNode) Visualize() *graph.Node {
	return graph.NewNode("failing")
}

// failingStreamNode yields its rows and then fails.
type failingStreamNode struct {
	rows []*Row
}

func (node failingStreamNode) Get(ctx context.Context) (RowStream, error) {
	i := 0
	return iteration.NewLookAheadFunc(func() (*Row, bool, error) {
		if i == len(node.rows) {
			return nil, false, errNodeFailure
		}
		i++
		return node.rows[i-1], true, nil
	}, nil), nil
}

func (failingStreamNode) Depth() int {
	return 1
}

func (failingStreamNode) Visualize() *graph.Node {
	return graph.NewNode("failing stream")
}

type failingConnection struct{}

func (failingConnection) Evaluate(ctx context.Context, request connection.Request) (iteration.Iteration[connection.Bindings], error) {
	return nil, errNodeFailure
}

func (failingConnection) HasStatement(ctx context.Context, subject, predicate, object rdf.Term, includeInferred bool, contexts ...rdf.Term) (bool, error) {
	return false, errNodeFailure
}
