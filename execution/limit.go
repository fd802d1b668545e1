package execution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

const limitAll = -1

// Limit skips offset rows and then passes at most limit rows. A negative
// limit passes everything.
type Limit struct {
	source        PlanNode
	limit, offset int64
}

func NewLimit(source PlanNode, limit, offset int64) *Limit {
	return &Limit{source: source, limit: limit, offset: offset}
}

func (node *Limit) Get(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get source stream")
	}
	if node.offset > 0 {
		source = iteration.Offset(source, node.offset)
	}
	if node.limit != limitAll && node.limit >= 0 {
		source = iteration.Limit(source, node.limit)
	}
	return source, nil
}

func (node *Limit) Depth() int {
	return maxDepth(node.source)
}

func (node *Limit) Visualize() *graph.Node {
	n := graph.NewNode("limit")
	if node.limit >= 0 {
		n.AddField("limit", fmt.Sprint(node.limit))
	}
	if node.offset > 0 {
		n.AddField("offset", fmt.Sprint(node.offset))
	}
	n.AddChild("source", node.source.Visualize())
	return n
}
