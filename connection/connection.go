// Package connection describes what the execution core needs from a triple
// store: evaluating an already parsed query and checking whether a
// statement exists.
package connection

import (
	"context"
	"sort"
	"strings"

	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// QueryBody is an opaque, already parsed query. The core never looks into it.
type QueryBody interface {
	String() string
}

type Query struct {
	Body QueryBody
	// Variables lists the projected variables in column order. The first
	// one is the leading column.
	Variables []string
}

// Dataset selects the graphs a query runs against. No graphs means the
// default graph of the connection.
type Dataset struct {
	Graphs []rdf.Term
}

type Bindings map[string]rdf.Term

func (b Bindings) Get(name string) (rdf.Term, bool) {
	term, ok := b[name]
	return term, ok && term != nil
}

// Merge returns a copy of b extended with other, or false if they disagree
// on a shared variable.
func (b Bindings) Merge(other Bindings) (Bindings, bool) {
	out := make(Bindings, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		if existing, ok := out[k]; ok && !rdf.Equal(existing, v) {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

func (b Bindings) String() string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = "?" + name + "=" + b[name].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Values is an inline binding set for a single variable, equivalent to a
// SPARQL VALUES clause.
type Values struct {
	Variable string
	Terms    []rdf.Term
}

type Request struct {
	Query    Query
	Dataset  Dataset
	Bindings Bindings
	Values   *Values
}

type Evaluator interface {
	Evaluate(ctx context.Context, request Request) (iteration.Iteration[Bindings], error)
}

type Connection interface {
	Evaluator
	// HasStatement reports whether a statement matching the pattern exists.
	// Nil terms are wildcards. No contexts means any graph.
	HasStatement(ctx context.Context, subject, predicate, object rdf.Term, includeInferred bool, contexts ...rdf.Term) (bool, error)
}
