package execution

import (
	"context"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// InnerJoin is a sort-merge join on the leading column. Both inputs must be
// sorted by leading column, and the left one must be unique by it. Joined
// rows are the left row followed by the right row without its leading
// column.
//
// Rows left without a partner can be captured with DiscardedLeft and
// DiscardedRight.
type InnerJoin struct {
	sideOutputs
	left, right PlanNode

	discardedLeft, discardedRight *PushNode
}

func NewInnerJoin(left, right PlanNode) *InnerJoin {
	return &InnerJoin{left: left, right: right}
}

func (node *InnerJoin) DiscardedLeft() *PushNode {
	if node.discardedLeft == nil {
		node.discardedLeft = node.side(node, "discarded left", node.run)
	}
	return node.discardedLeft
}

func (node *InnerJoin) DiscardedRight() *PushNode {
	if node.discardedRight == nil {
		node.discardedRight = node.side(node, "discarded right", node.run)
	}
	return node.discardedRight
}

func (node *InnerJoin) Get(ctx context.Context) (RowStream, error) {
	return node.get(ctx, node.run)
}

func (node *InnerJoin) run(ctx context.Context) (RowStream, error) {
	left, right, err := getInputs(ctx, node.left, node.right)
	if err != nil {
		return nil, err
	}
	left = assertOrder(ctx, left, "inner join left", uniqueKeyOrder)
	right = assertOrder(ctx, right, "inner join right", keyOrder)
	return newInnerJoinIteration(ctx, left, right, sink(node.discardedLeft), sink(node.discardedRight)), nil
}

func (node *InnerJoin) Depth() int {
	return maxDepth(node.left, node.right)
}

func (node *InnerJoin) Visualize() *graph.Node {
	n := graph.NewNode("inner join")
	n.AddChild("left", node.left.Visualize())
	n.AddChild("right", node.right.Visualize())
	return n
}

type innerJoinProducer struct {
	ctx context.Context
	merger
	discardLeft, discardRight Sink
}

func newInnerJoinIteration(ctx context.Context, left, right RowStream, discardLeft, discardRight Sink) *iteration.LookAhead[*Row] {
	return iteration.NewLookAhead[*Row](&innerJoinProducer{
		ctx:          ctx,
		merger:       merger{left: left, right: right},
		discardLeft:  discardLeft,
		discardRight: discardRight,
	})
}

func (p *innerJoinProducer) ProduceNext() (*Row, bool, error) {
	if err := p.start(); err != nil {
		return nil, false, err
	}
	for {
		if p.leftRow == nil || p.rightRow == nil {
			if err := drain(p.leftRow, p.left, p.discardLeft); err != nil {
				return nil, false, err
			}
			if err := drain(p.rightRow, p.right, p.discardRight); err != nil {
				return nil, false, err
			}
			p.leftRow, p.rightRow = nil, nil
			return nil, false, nil
		}

		switch c := p.leftRow.CompareKey(p.rightRow); {
		case c == 0:
			out := p.leftRow.Concat(p.rightRow)
			if err := p.advanceAfterMatch(); err != nil {
				return nil, false, err
			}
			return out, true, nil

		case c < 0:
			reportRejected(p.ctx, "inner join", p.leftRow, "no right partner")
			if p.discardLeft != nil {
				p.discardLeft.Push(p.leftRow)
			}
			if err := p.advanceLeft(); err != nil {
				return nil, false, err
			}

		default:
			if p.discardRight != nil {
				p.discardRight.Push(p.rightRow)
			}
			if err := p.advanceRight(); err != nil {
				return nil, false, err
			}
		}
	}
}

func (p *innerJoinProducer) HandleClose() error {
	return p.close()
}
