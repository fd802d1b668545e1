package execution

import (
	"context"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Unique drops duplicate rows from an input sorted by leading column.
// Duplicates are only looked for within a run of rows sharing the leading
// column, so memory is bounded by the largest run.
type Unique struct {
	source PlanNode
}

func NewUnique(source PlanNode) *Unique {
	return &Unique{source: source}
}

func (node *Unique) Get(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, err
	}
	source = assertOrder(ctx, source, "unique source", keyOrder)
	return iteration.NewLookAhead[*Row](&uniqueProducer{
		ctx:    ctx,
		source: source,
		run:    iteration.NewHashSet[*Row](),
	}), nil
}

func (node *Unique) Depth() int {
	return maxDepth(node.source)
}

func (node *Unique) Visualize() *graph.Node {
	n := graph.NewNode("unique")
	n.AddChild("source", node.source.Visualize())
	return n
}

type uniqueProducer struct {
	ctx    context.Context
	source RowStream

	previous *Row
	// run holds the rows emitted since the leading column last changed.
	run *iteration.HashSet[*Row]
}

func (p *uniqueProducer) ProduceNext() (*Row, bool, error) {
	for {
		row, ok, err := iteration.Pull(p.source)
		if err != nil || !ok {
			return nil, false, err
		}
		if p.isDuplicate(row) {
			reportRejected(p.ctx, "unique", row, "duplicate")
			continue
		}
		p.previous = row
		return row, true, nil
	}
}

// isDuplicate records row in the current run. Single column rows sharing a
// key are all equal, so for them the run never grows past one row.
func (p *uniqueProducer) isDuplicate(row *Row) bool {
	if p.previous != nil && row.CompareKey(p.previous) != 0 {
		p.run.Reset()
	}
	return !p.run.Add(row)
}

func (p *uniqueProducer) HandleClose() error {
	return p.source.Close()
}
