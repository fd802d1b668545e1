package execution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Trim projects rows onto a subset of their columns.
type Trim struct {
	source  PlanNode
	columns []int
}

func NewTrim(source PlanNode, columns ...int) *Trim {
	return &Trim{source: source, columns: columns}
}

func (node *Trim) Get(ctx context.Context) (RowStream, error) {
	if len(node.columns) == 0 {
		return nil, errors.New("trim without columns")
	}
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get source stream")
	}
	return iteration.Map[*Row, *Row](source, func(row *Row) (*Row, error) {
		for _, column := range node.columns {
			if column < 0 || column >= row.Len() {
				return nil, errors.Errorf("column %d out of range for %s", column, row)
			}
		}
		return row.Trim(node.columns...), nil
	}), nil
}

func (node *Trim) Depth() int {
	return maxDepth(node.source)
}

func (node *Trim) Visualize() *graph.Node {
	n := graph.NewNode("trim")
	n.AddField("columns", fmt.Sprint(node.columns))
	n.AddChild("source", node.source.Visualize())
	return n
}
