package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// BufferSplitter fans one source out to many consumers. The source is read
// completely on first access of any output, after which every output can be
// read any number of times.
type BufferSplitter struct {
	source PlanNode

	once    sync.Once
	rows    []*Row
	err     error
	outputs int
}

func NewBufferSplitter(source PlanNode) *BufferSplitter {
	return &BufferSplitter{source: source}
}

func (node *BufferSplitter) materialize(ctx context.Context) ([]*Row, error) {
	node.once.Do(func() {
		stream, err := node.source.Get(ctx)
		if err != nil {
			node.err = errors.Wrap(err, "couldn't get source stream")
			return
		}
		rows, err := iteration.Collect(stream)
		if err != nil {
			node.err = errors.Wrap(err, "couldn't buffer source stream")
			return
		}
		node.rows = rows
	})
	return node.rows, node.err
}

// Output returns a new consumer of the buffered rows.
func (node *BufferSplitter) Output() PlanNode {
	node.outputs++
	return &splitterOutput{splitter: node, index: node.outputs - 1}
}

type splitterOutput struct {
	splitter *BufferSplitter
	index    int
}

func (node *splitterOutput) Get(ctx context.Context) (RowStream, error) {
	return iteration.Delayed(func() (RowStream, error) {
		rows, err := node.splitter.materialize(ctx)
		if err != nil {
			return nil, err
		}
		return iteration.NewSlice(rows...), nil
	}), nil
}

func (node *splitterOutput) Depth() int {
	return maxDepth(node.splitter.source)
}

func (node *splitterOutput) Visualize() *graph.Node {
	n := graph.NewNode("buffer split")
	n.AddField("output", fmt.Sprint(node.index))
	n.AddChild("source", node.splitter.source.Visualize())
	return n
}
