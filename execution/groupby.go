package execution

import (
	"context"
	"strconv"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// GroupByCount collapses each run of rows sharing a leading column into one
// (key, count) row, the input being sorted by leading column. Only rows
// wider than the key itself are counted, so a key present with no values
// yields a count of zero.
type GroupByCount struct {
	source PlanNode
}

func NewGroupByCount(source PlanNode) *GroupByCount {
	return &GroupByCount{source: source}
}

func (node *GroupByCount) Get(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, err
	}
	source = assertOrder(ctx, source, "group by count source", keyOrder)
	return iteration.NewLookAhead[*Row](&groupByCountProducer{source: source}), nil
}

func (node *GroupByCount) Depth() int {
	return maxDepth(node.source)
}

func (node *GroupByCount) Visualize() *graph.Node {
	n := graph.NewNode("group by count")
	n.AddChild("source", node.source.Visualize())
	return n
}

type groupByCountProducer struct {
	source RowStream
	// next is the first row of the following run.
	next *Row
}

func (p *groupByCountProducer) ProduceNext() (*Row, bool, error) {
	first := p.next
	if first == nil {
		row, ok, err := iteration.Pull(p.source)
		if err != nil || !ok {
			return nil, false, err
		}
		first = row
	}
	p.next = nil

	run := []*Row{first}
	for {
		row, ok, err := iteration.Pull(p.source)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		if row.CompareKey(first) != 0 {
			p.next = row
			break
		}
		run = append(run, row)
	}

	count := 0
	for _, row := range run {
		if row.Len() > 1 {
			count++
		}
	}
	out := NewRow(first.Key(), rdf.NewTypedLiteral(strconv.Itoa(count), rdf.XSDInteger))
	out.AddHistory(run...)
	return out, true, nil
}

func (p *groupByCountProducer) HandleClose() error {
	return p.source.Close()
}
