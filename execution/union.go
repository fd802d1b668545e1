package execution

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Union merges inputs sorted by row order into one sorted stream. It is a
// bag union: duplicates from any inputs are all kept. Equal rows come out
// in input order.
type Union struct {
	sources []PlanNode
}

func NewUnion(sources ...PlanNode) *Union {
	return &Union{sources: sources}
}

func (node *Union) Get(ctx context.Context) (RowStream, error) {
	streams := make([]RowStream, 0, len(node.sources))
	for i, source := range node.sources {
		stream, err := source.Get(ctx)
		if err != nil {
			return nil, iteration.CloseOnError(errors.Wrapf(err, "couldn't get union source with index %d", i), streams...)
		}
		streams = append(streams, assertOrder(ctx, stream, fmt.Sprintf("union source %d", i), rowOrder))
	}
	switch len(streams) {
	case 0:
		return iteration.Empty[*Row](), nil
	case 1:
		return streams[0], nil
	}
	return iteration.NewLookAhead[*Row](&unionProducer{
		sources: streams,
		current: make([]*Row, len(streams)),
	}), nil
}

func (node *Union) Depth() int {
	return maxDepth(node.sources...)
}

func (node *Union) Visualize() *graph.Node {
	n := graph.NewNode("union")
	for i, source := range node.sources {
		n.AddChild(fmt.Sprintf("source_%d", i), source.Visualize())
	}
	return n
}

type unionProducer struct {
	sources []RowStream
	// current holds the next row of every source, nil once it's exhausted.
	current []*Row
	started bool
}

func (p *unionProducer) fill(i int) error {
	row, _, err := iteration.Pull(p.sources[i])
	if err != nil {
		return errors.Wrapf(err, "couldn't get next row of union source with index %d", i)
	}
	p.current[i] = row
	return nil
}

func (p *unionProducer) ProduceNext() (*Row, bool, error) {
	if !p.started {
		p.started = true
		for i := range p.sources {
			if err := p.fill(i); err != nil {
				return nil, false, err
			}
		}
	}

	min := -1
	for i, row := range p.current {
		if row == nil {
			continue
		}
		if min == -1 || row.compareFull(p.current[min]) < 0 {
			min = i
		}
	}
	if min == -1 {
		return nil, false, nil
	}

	out := p.current[min]
	if err := p.fill(min); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (p *unionProducer) HandleClose() error {
	return iteration.CloseAll(p.sources...)
}
