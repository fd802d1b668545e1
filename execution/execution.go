package execution

import (
	"context"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

type RowStream = iteration.Iteration[*Row]

// PlanNode is a lazy computation producing rows. Unless documented
// otherwise, the stream returned by Get is single use: calling Get twice
// gives two independent runs over the same upstream nodes.
type PlanNode interface {
	Get(ctx context.Context) (RowStream, error)
	// Depth is the length of the longest chain of upstream nodes, counting
	// the node itself.
	Depth() int
	graph.Visualizer
}

// Explain renders a textual description of the plan.
func Explain(node PlanNode) string {
	return graph.Text(node.Visualize())
}

func maxDepth(nodes ...PlanNode) int {
	max := 0
	for _, node := range nodes {
		if d := node.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}
