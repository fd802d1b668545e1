package execution

import (
	"context"
	"fmt"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// EqualsJoin matches rows equal in every column. Both inputs must be sorted
// by row order. As a filter it emits the left row carrying the provenance of
// its partner instead of a concatenation.
type EqualsJoin struct {
	left, right PlanNode
	useAsFilter bool
}

func NewEqualsJoin(left, right PlanNode, useAsFilter bool) *EqualsJoin {
	return &EqualsJoin{left: left, right: right, useAsFilter: useAsFilter}
}

func (node *EqualsJoin) Get(ctx context.Context) (RowStream, error) {
	left, right, err := getInputs(ctx, node.left, node.right)
	if err != nil {
		return nil, err
	}
	left = assertOrder(ctx, left, "equals join left", rowOrder)
	right = assertOrder(ctx, right, "equals join right", rowOrder)
	return iteration.NewLookAhead[*Row](&equalsJoinProducer{
		merger:      merger{left: left, right: right},
		useAsFilter: node.useAsFilter,
	}), nil
}

func (node *EqualsJoin) Depth() int {
	return maxDepth(node.left, node.right)
}

func (node *EqualsJoin) Visualize() *graph.Node {
	n := graph.NewNode("equals join")
	n.AddField("filter", fmt.Sprint(node.useAsFilter))
	n.AddChild("left", node.left.Visualize())
	n.AddChild("right", node.right.Visualize())
	return n
}

type equalsJoinProducer struct {
	merger
	useAsFilter bool
}

func (p *equalsJoinProducer) ProduceNext() (*Row, bool, error) {
	if err := p.start(); err != nil {
		return nil, false, err
	}
	for p.leftRow != nil && p.rightRow != nil {
		c := p.leftRow.compareFull(p.rightRow)
		switch {
		case c < 0:
			if err := p.advanceLeft(); err != nil {
				return nil, false, err
			}
		case c > 0:
			if err := p.advanceRight(); err != nil {
				return nil, false, err
			}
		default:
			var out *Row
			if p.useAsFilter {
				out = p.leftRow.InheritFrom(p.rightRow)
			} else {
				out = p.leftRow.Concat(p.rightRow)
			}
			if err := p.advanceLeft(); err != nil {
				return nil, false, err
			}
			if err := p.advanceRight(); err != nil {
				return nil, false, err
			}
			return out, true, nil
		}
	}
	return nil, false, nil
}

func (p *equalsJoinProducer) HandleClose() error {
	return p.close()
}
