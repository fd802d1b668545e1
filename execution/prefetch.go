package execution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Prefetch pulls its source on a separate goroutine, buffering up to
// capacity rows ahead of the consumer. It is the only node running any of
// its work concurrently.
type Prefetch struct {
	source   PlanNode
	capacity int
}

func NewPrefetch(source PlanNode, capacity int) *Prefetch {
	if capacity <= 0 {
		capacity = 1
	}
	return &Prefetch{source: source, capacity: capacity}
}

func (node *Prefetch) Get(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get source stream")
	}

	queue := iteration.NewQueue[*Row](ctx, node.capacity)
	var g errgroup.Group
	g.Go(func() error {
		err := iteration.ForEach(source, func(row *Row) error {
			return queue.Put(ctx, row)
		})
		switch {
		case err == nil:
			queue.Done()
		case errors.Is(err, iteration.ErrClosed):
			// The consumer is gone.
		default:
			queue.Fail(err)
		}
		return nil
	})

	return iteration.NewLookAheadFunc(
		func() (*Row, bool, error) {
			return iteration.Pull[*Row](queue)
		},
		func() error {
			err := queue.Close()
			_ = g.Wait()
			return err
		},
	), nil
}

func (node *Prefetch) Depth() int {
	return maxDepth(node.source)
}

func (node *Prefetch) Visualize() *graph.Node {
	n := graph.NewNode("prefetch")
	n.AddField("capacity", fmt.Sprint(node.capacity))
	n.AddChild("source", node.source.Visualize())
	return n
}
