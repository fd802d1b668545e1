package execution

import (
	"context"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// LeftOuterJoin is InnerJoin which also emits, unmodified and in order, the
// left rows without a right partner.
type LeftOuterJoin struct {
	left, right PlanNode
}

func NewLeftOuterJoin(left, right PlanNode) *LeftOuterJoin {
	return &LeftOuterJoin{left: left, right: right}
}

func (node *LeftOuterJoin) Get(ctx context.Context) (RowStream, error) {
	left, right, err := getInputs(ctx, node.left, node.right)
	if err != nil {
		return nil, err
	}
	left = assertOrder(ctx, left, "left outer join left", uniqueKeyOrder)
	right = assertOrder(ctx, right, "left outer join right", keyOrder)
	return newLeftOuterJoinIteration(left, right), nil
}

func (node *LeftOuterJoin) Depth() int {
	return maxDepth(node.left, node.right)
}

func (node *LeftOuterJoin) Visualize() *graph.Node {
	n := graph.NewNode("left outer join")
	n.AddChild("left", node.left.Visualize())
	n.AddChild("right", node.right.Visualize())
	return n
}

type leftOuterJoinProducer struct {
	merger
}

func newLeftOuterJoinIteration(left, right RowStream) *iteration.LookAhead[*Row] {
	return iteration.NewLookAhead[*Row](&leftOuterJoinProducer{
		merger: merger{left: left, right: right},
	})
}

func (p *leftOuterJoinProducer) ProduceNext() (*Row, bool, error) {
	if err := p.start(); err != nil {
		return nil, false, err
	}
	for {
		if p.leftRow == nil {
			return nil, false, nil
		}

		if p.rightRow == nil || p.leftRow.CompareKey(p.rightRow) < 0 {
			out := p.leftRow
			if err := p.advanceLeft(); err != nil {
				return nil, false, err
			}
			return out, true, nil
		}

		if p.leftRow.CompareKey(p.rightRow) > 0 {
			if err := p.advanceRight(); err != nil {
				return nil, false, err
			}
			continue
		}

		out := p.leftRow.Concat(p.rightRow)
		if err := p.advanceAfterMatch(); err != nil {
			return nil, false, err
		}
		return out, true, nil
	}
}

func (p *leftOuterJoinProducer) HandleClose() error {
	return p.close()
}
