package execution

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// Rows is a leaf over a materialized row set. Its Get may be called any
// number of times.
type Rows struct {
	rows []*Row
}

// NewRows sorts rows by row order when sorted is set.
func NewRows(sorted bool, rows ...*Row) *Rows {
	if sorted {
		rows = append([]*Row(nil), rows...)
		sortRows(rows)
	}
	return &Rows{rows: rows}
}

func (node *Rows) Get(ctx context.Context) (RowStream, error) {
	return iteration.NewSlice(node.rows...), nil
}

func (node *Rows) Depth() int {
	return 1
}

func (node *Rows) Visualize() *graph.Node {
	n := graph.NewNode("rows")
	n.AddField("count", fmt.Sprint(len(node.rows)))
	return n
}

type Empty struct{}

func (node Empty) Get(ctx context.Context) (RowStream, error) {
	return iteration.Empty[*Row](), nil
}

func (node Empty) Depth() int {
	return 1
}

func (node Empty) Visualize() *graph.Node {
	return graph.NewNode("empty")
}

// Select is a leaf evaluating a query against a connection. Each solution
// becomes a row with one column per projected variable, in order. Solutions
// missing one of the variables are skipped. The query is only sent once the
// stream is first pulled.
type Select struct {
	evaluator connection.Evaluator
	query     connection.Query
	dataset   connection.Dataset
	sorted    bool
}

// NewSelect requires at least one projected variable. With sorted set the
// results are collected and sorted by row order, otherwise the evaluator is
// trusted to return them in row order.
func NewSelect(evaluator connection.Evaluator, query connection.Query, dataset connection.Dataset, sorted bool) *Select {
	return &Select{evaluator: evaluator, query: query, dataset: dataset, sorted: sorted}
}

func (node *Select) Get(ctx context.Context) (RowStream, error) {
	if len(node.query.Variables) == 0 {
		return nil, errors.New("select without projected variables")
	}
	return iteration.Delayed(func() (RowStream, error) {
		return evaluateRows(ctx, node.evaluator, connection.Request{
			Query:   node.query,
			Dataset: node.dataset,
		}, node.sorted)
	}), nil
}

func (node *Select) Depth() int {
	return 1
}

func (node *Select) Visualize() *graph.Node {
	n := graph.NewNode("select")
	n.AddField("query", node.query.Body.String())
	n.AddField("variables", strings.Join(node.query.Variables, ", "))
	if len(node.dataset.Graphs) > 0 {
		n.AddField("graphs", termList(node.dataset.Graphs))
	}
	if node.sorted {
		n.AddField("sorted", "true")
	}
	return n
}

func evaluateRows(ctx context.Context, evaluator connection.Evaluator, request connection.Request, sorted bool) (RowStream, error) {
	solutions, err := evaluator.Evaluate(ctx, request)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't evaluate query %s", request.Query.Body)
	}

	variables := request.Query.Variables
	complete := iteration.Filter(solutions, func(b connection.Bindings) (bool, error) {
		for _, variable := range variables {
			if _, ok := b.Get(variable); !ok {
				return false, nil
			}
		}
		return true, nil
	})
	rows := iteration.Map[connection.Bindings, *Row](complete, func(b connection.Bindings) (*Row, error) {
		terms := make([]rdf.Term, len(variables))
		for i, variable := range variables {
			terms[i] = b[variable]
		}
		return NewRow(terms...), nil
	})
	if !sorted {
		return rows, nil
	}

	out, err := iteration.Collect[*Row](rows)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't collect query results for sorting")
	}
	sortRows(out)
	return iteration.NewSlice(out...), nil
}

func sortRows(rows []*Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].compareFull(rows[j]) < 0
	})
}

func termList(terms []rdf.Term) string {
	parts := make([]string, len(terms))
	for i := range terms {
		parts[i] = terms[i].String()
	}
	return strings.Join(parts, ", ")
}
