package execution

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Sort reads its whole source and emits it in row order. It establishes the
// ordering merge based nodes require of sources which don't provide it.
type Sort struct {
	source PlanNode
}

func NewSort(source PlanNode) *Sort {
	return &Sort{source: source}
}

func (node *Sort) Get(ctx context.Context) (RowStream, error) {
	return iteration.Delayed(func() (RowStream, error) {
		source, err := node.source.Get(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get source stream")
		}
		rows, err := iteration.Collect(source)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read rows to sort")
		}
		sortRows(rows)
		return iteration.NewSlice(rows...), nil
	}), nil
}

func (node *Sort) Depth() int {
	return maxDepth(node.source)
}

func (node *Sort) Visualize() *graph.Node {
	n := graph.NewNode("sort")
	n.AddChild("source", node.source.Visualize())
	return n
}
