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

type Condition interface {
	Test(ctx context.Context, row *Row) (bool, error)
	String() string
}

// FilterNode streams the rows of its source accepted by the condition.
// Rejected rows can be captured through Rejected.
type FilterNode struct {
	sideOutputs
	source    PlanNode
	condition Condition
	rejected  *PushNode
}

func NewFilter(source PlanNode, condition Condition) *FilterNode {
	return &FilterNode{source: source, condition: condition}
}

// Accepted is the primary output as a push node. Use it together with
// Rejected to consume both outputs in one pass.
func (node *FilterNode) Accepted() PlanNode {
	return node.primary(node, node.run)
}

func (node *FilterNode) Rejected() *PushNode {
	if node.rejected == nil {
		node.rejected = node.side(node, "rejected", node.run)
	}
	return node.rejected
}

func (node *FilterNode) Get(ctx context.Context) (RowStream, error) {
	return node.get(ctx, node.run)
}

func (node *FilterNode) run(ctx context.Context) (RowStream, error) {
	source, err := node.source.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get source stream")
	}

	rejected := sink(node.rejected)
	name := node.condition.String()
	return iteration.Filter(source, func(row *Row) (bool, error) {
		ok, err := node.condition.Test(ctx, row)
		if err != nil {
			return false, errors.Wrapf(err, "couldn't test %s on %s", name, row)
		}
		if !ok {
			reportRejected(ctx, name, row, "condition not satisfied")
			if rejected != nil {
				rejected.Push(row)
			}
		}
		return ok, nil
	}), nil
}

func (node *FilterNode) Depth() int {
	return maxDepth(node.source)
}

func (node *FilterNode) Visualize() *graph.Node {
	n := graph.NewNode("filter")
	n.AddField("condition", node.condition.String())
	n.AddChild("source", node.source.Visualize())
	return n
}

// TypeFilter accepts rows whose term in Column is an instance of one of
// Types, according to the connection.
type TypeFilter struct {
	Connection      connection.Connection
	Column          int
	Types           []rdf.Term
	IncludeInferred bool
	Graphs          []rdf.Term
}

func (f *TypeFilter) Test(ctx context.Context, row *Row) (bool, error) {
	subject := row.At(f.Column)
	for _, class := range f.Types {
		ok, err := f.Connection.HasStatement(ctx, subject, rdf.RDFType, class, f.IncludeInferred, f.Graphs...)
		if err != nil {
			return false, errors.Wrapf(err, "couldn't check type %s of %s", class, subject)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *TypeFilter) String() string {
	return fmt.Sprintf("type(%d) in [%s] inferred=%t", f.Column, termList(f.Types), f.IncludeInferred)
}

// ValueIn accepts rows whose term in Column is one of the given values.
type ValueIn struct {
	column int
	values []rdf.Term
	set    map[rdf.Term]struct{}
}

func NewValueIn(column int, values ...rdf.Term) *ValueIn {
	set := make(map[rdf.Term]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return &ValueIn{column: column, values: values, set: set}
}

func (f *ValueIn) Test(ctx context.Context, row *Row) (bool, error) {
	_, ok := f.set[row.At(f.column)]
	return ok, nil
}

func (f *ValueIn) String() string {
	return fmt.Sprintf("value(%d) in [%s]", f.column, termList(f.values))
}

type NodeKindMask uint8

const (
	IRIKind NodeKindMask = 1 << iota
	BlankNodeKind
	LiteralKind
)

func (m NodeKindMask) accepts(kind rdf.TermKind) bool {
	switch kind {
	case rdf.KindIRI:
		return m&IRIKind != 0
	case rdf.KindBlankNode:
		return m&BlankNodeKind != 0
	case rdf.KindLiteral:
		return m&LiteralKind != 0
	}
	return false
}

func (m NodeKindMask) String() string {
	var parts []string
	if m&IRIKind != 0 {
		parts = append(parts, "iri")
	}
	if m&BlankNodeKind != 0 {
		parts = append(parts, "blank")
	}
	if m&LiteralKind != 0 {
		parts = append(parts, "literal")
	}
	return strings.Join(parts, "|")
}

// NodeKind accepts rows whose term in Column is of an allowed kind.
type NodeKind struct {
	Column int
	Kinds  NodeKindMask
}

func (f *NodeKind) Test(ctx context.Context, row *Row) (bool, error) {
	return f.Kinds.accepts(row.At(f.Column).Kind()), nil
}

func (f *NodeKind) String() string {
	return fmt.Sprintf("kind(%d) in %s", f.Column, f.Kinds)
}
