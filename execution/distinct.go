package execution

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Distinct drops every row seen before, in any position. Unlike Unique it
// needs no ordering but remembers all rows it emitted.
type Distinct struct {
	source PlanNode
	// reduced only drops rows equal to the row right before them.
	reduced bool
}

func NewDistinct(source PlanNode) *Distinct {
	return &Distinct{source: source}
}

func NewReduced(source PlanNode) *Distinct {
	return &Distinct{source: source, reduced: true}
}

func (node *Distinct) Get(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get source stream")
	}
	if node.reduced {
		return iteration.Reduced(source), nil
	}
	return iteration.Distinct(source), nil
}

func (node *Distinct) Depth() int {
	return maxDepth(node.source)
}

func (node *Distinct) Visualize() *graph.Node {
	name := "distinct"
	if node.reduced {
		name = "reduced"
	}
	n := graph.NewNode(name)
	n.AddChild("source", node.source.Visualize())
	return n
}

// SetFilter keeps the source rows present (intersect) or absent (minus) in
// other, which is read completely on the first pull.
type SetFilter struct {
	source, other PlanNode
	minus         bool
	distinct      bool
}

func NewIntersect(source, other PlanNode, distinct bool) *SetFilter {
	return &SetFilter{source: source, other: other, distinct: distinct}
}

func NewMinus(source, other PlanNode, distinct bool) *SetFilter {
	return &SetFilter{source: source, other: other, minus: true, distinct: distinct}
}

func (node *SetFilter) Get(ctx context.Context) (RowStream, error) {
	source, other, err := getInputs(ctx, node.source, node.other)
	if err != nil {
		return nil, err
	}
	if node.minus {
		return iteration.Minus(source, other, node.distinct), nil
	}
	return iteration.Intersect(source, other, node.distinct), nil
}

func (node *SetFilter) Depth() int {
	return maxDepth(node.source, node.other)
}

func (node *SetFilter) Visualize() *graph.Node {
	name := "intersect"
	if node.minus {
		name = "minus"
	}
	n := graph.NewNode(name)
	if node.distinct {
		n.AddField("distinct", "true")
	}
	n.AddChild("source", node.source.Visualize())
	n.AddChild("other", node.other.Visualize())
	return n
}
