package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

const DefaultBatchSize = 200

// BatchedExternalJoin joins its left input, sorted and unique by leading
// column, with the results of a query against a connection. Instead of one
// query per row, it pulls a window of left rows and sends a single query
// binding the first projected variable to all their leading terms.
type BatchedExternalJoin struct {
	sideOutputs
	left      PlanNode
	evaluator connection.Evaluator
	query     connection.Query

	dataset       connection.Dataset
	batchSize     int
	skip          func(*Row) bool
	outer         bool
	discardedLeft *PushNode
}

type BatchedJoinOption func(*BatchedExternalJoin)

func WithBatchSize(n int) BatchedJoinOption {
	return func(node *BatchedExternalJoin) {
		if n > 0 {
			node.batchSize = n
		}
	}
}

// WithSkip leaves rows for which skip holds out of the query. They stay in
// the window, so they end up unmatched.
func WithSkip(skip func(*Row) bool) BatchedJoinOption {
	return func(node *BatchedExternalJoin) {
		node.skip = skip
	}
}

func WithDataset(dataset connection.Dataset) BatchedJoinOption {
	return func(node *BatchedExternalJoin) {
		node.dataset = dataset
	}
}

// Outer keeps left rows without results, like LeftOuterJoin.
func Outer() BatchedJoinOption {
	return func(node *BatchedExternalJoin) {
		node.outer = true
	}
}

// NewBatchedExternalJoin requires query to project at least one variable,
// the first one being joined with the leading column of the left rows.
func NewBatchedExternalJoin(left PlanNode, evaluator connection.Evaluator, query connection.Query, opts ...BatchedJoinOption) *BatchedExternalJoin {
	node := &BatchedExternalJoin{
		left:      left,
		evaluator: evaluator,
		query:     query,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(node)
	}
	return node
}

func (node *BatchedExternalJoin) IsOuter() bool {
	return node.outer
}

// DiscardedLeft receives left rows without results. Not available for outer
// joins, which emit them instead.
func (node *BatchedExternalJoin) DiscardedLeft() *PushNode {
	if node.outer {
		panic("outer batched join has no discarded rows")
	}
	if node.discardedLeft == nil {
		node.discardedLeft = node.side(node, "discarded left", node.run)
	}
	return node.discardedLeft
}

func (node *BatchedExternalJoin) Get(ctx context.Context) (RowStream, error) {
	return node.get(ctx, node.run)
}

func (node *BatchedExternalJoin) run(ctx context.Context) (RowStream, error) {
	if len(node.query.Variables) == 0 {
		return nil, errors.New("batched join query without projected variables")
	}
	left, err := node.left.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get left stream")
	}
	left = assertOrder(ctx, left, "batched join left", uniqueKeyOrder)
	return iteration.NewLookAhead[*Row](&batchedJoinProducer{
		ctx:     ctx,
		node:    node,
		left:    left,
		discard: sink(node.discardedLeft),
	}), nil
}

func (node *BatchedExternalJoin) Depth() int {
	return maxDepth(node.left)
}

func (node *BatchedExternalJoin) Visualize() *graph.Node {
	n := graph.NewNode("batched external join")
	n.AddField("query", node.query.Body.String())
	n.AddField("variables", strings.Join(node.query.Variables, ", "))
	n.AddField("batch size", fmt.Sprint(node.batchSize))
	if node.outer {
		n.AddField("outer", "true")
	}
	if node.skip != nil {
		n.AddField("skip", "true")
	}
	n.AddChild("left", node.left.Visualize())
	return n
}

type batchedJoinProducer struct {
	ctx     context.Context
	node    *BatchedExternalJoin
	left    RowStream
	discard Sink

	// current merges the latest window with its query results.
	current   RowStream
	exhausted bool
}

func (p *batchedJoinProducer) ProduceNext() (*Row, bool, error) {
	for {
		if p.current != nil {
			row, ok, err := iteration.Pull(p.current)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return row, true, nil
			}
			p.current = nil
		}
		if p.exhausted {
			return nil, false, nil
		}
		if err := p.nextWindow(); err != nil {
			return nil, false, err
		}
	}
}

func (p *batchedJoinProducer) nextWindow() error {
	window := make([]*Row, 0, p.node.batchSize)
	for len(window) < p.node.batchSize {
		row, ok, err := iteration.Pull(p.left)
		if err != nil {
			return errors.Wrap(err, "couldn't get next left row")
		}
		if !ok {
			p.exhausted = true
			break
		}
		window = append(window, row)
	}
	if len(window) == 0 {
		return nil
	}

	results, err := p.query(window)
	if err != nil {
		return err
	}

	left := iteration.NewSlice(window...)
	right := iteration.NewSlice(results...)
	if p.node.outer {
		p.current = newLeftOuterJoinIteration(left, right)
	} else {
		p.current = newInnerJoinIteration(p.ctx, left, right, p.discard, nil)
	}
	return nil
}

// query fetches the sorted rows matching the leading terms of the window.
func (p *batchedJoinProducer) query(window []*Row) ([]*Row, error) {
	var terms []rdf.Term
	var previous rdf.Term
	for _, row := range window {
		if p.node.skip != nil && p.node.skip(row) {
			continue
		}
		if previous != nil && rdf.Equal(previous, row.Key()) {
			continue
		}
		previous = row.Key()
		terms = append(terms, row.Key())
	}
	if len(terms) == 0 {
		return nil, nil
	}

	stream, err := evaluateRows(p.ctx, p.node.evaluator, connection.Request{
		Query:   p.node.query,
		Dataset: p.node.dataset,
		Values: &connection.Values{
			Variable: p.node.query.Variables[0],
			Terms:    terms,
		},
	}, true)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't query batch of %d terms", len(terms))
	}
	results, err := iteration.Collect(stream)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't collect batch results")
	}
	return results, nil
}

func (p *batchedJoinProducer) HandleClose() error {
	if p.current != nil {
		return iteration.CloseAll(p.current, p.left)
	}
	return p.left.Close()
}
