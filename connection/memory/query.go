package memory

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// Node is a triple pattern position: either a variable or a fixed term.
type Node struct {
	Variable string
	Term     rdf.Term
}

func Var(name string) Node {
	return Node{Variable: name}
}

func Term(term rdf.Term) Node {
	return Node{Term: term}
}

func (n Node) String() string {
	if n.Variable != "" {
		return "?" + n.Variable
	}
	if n.Term.Kind() == rdf.KindIRI {
		return "<" + n.Term.String() + ">"
	}
	return n.Term.String()
}

func (n Node) resolve(solution connection.Bindings) rdf.Term {
	if n.Variable == "" {
		return n.Term
	}
	term, _ := solution.Get(n.Variable)
	return term
}

type TriplePattern struct {
	Subject, Predicate, Object Node
}

func (tp TriplePattern) String() string {
	return tp.Subject.String() + " " + tp.Predicate.String() + " " + tp.Object.String() + " ."
}

// BGP is a basic graph pattern, the query body understood by Store.
type BGP []TriplePattern

func (bgp BGP) String() string {
	parts := make([]string, len(bgp))
	for i := range bgp {
		parts[i] = bgp[i].String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (s *Store) Evaluate(ctx context.Context, request connection.Request) (iteration.Iteration[connection.Bindings], error) {
	bgp, ok := request.Query.Body.(BGP)
	if !ok {
		return nil, errors.Errorf("unsupported query body type %T", request.Query.Body)
	}

	initial := request.Bindings
	if initial == nil {
		initial = connection.Bindings{}
	}
	solutions := []connection.Bindings{initial}
	if request.Values != nil {
		solutions = solutions[:0]
		for _, term := range request.Values.Terms {
			solution, ok := initial.Merge(connection.Bindings{request.Values.Variable: term})
			if ok {
				solutions = append(solutions, solution)
			}
		}
	}

	for i, pattern := range bgp {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "couldn't evaluate triple pattern with index %d", i)
		}
		solutions = s.extend(solutions, pattern, request.Dataset.Graphs)
	}

	out := make([]connection.Bindings, 0, len(solutions))
	for _, solution := range solutions {
		out = append(out, project(solution, request.Query.Variables))
	}
	return iteration.NewSlice(out...), nil
}

func (s *Store) extend(solutions []connection.Bindings, pattern TriplePattern, graphs []rdf.Term) []connection.Bindings {
	var out []connection.Bindings
	for _, solution := range solutions {
		subject := pattern.Subject.resolve(solution)
		predicate := pattern.Predicate.resolve(solution)
		object := pattern.Object.resolve(solution)

		for _, q := range s.Match(subject, predicate, object, graphs...) {
			bound, ok := bind(pattern, q)
			if !ok {
				continue
			}
			if extended, ok := solution.Merge(bound); ok {
				out = append(out, extended)
			}
		}
	}
	return out
}

// bind fails when a variable repeated within the pattern matched different
// terms.
func bind(pattern TriplePattern, q Quad) (connection.Bindings, bool) {
	out := connection.Bindings{}
	for _, position := range []struct {
		node Node
		term rdf.Term
	}{
		{pattern.Subject, q.Subject},
		{pattern.Predicate, q.Predicate},
		{pattern.Object, q.Object},
	} {
		if position.node.Variable == "" {
			continue
		}
		if existing, ok := out[position.node.Variable]; ok && !rdf.Equal(existing, position.term) {
			return nil, false
		}
		out[position.node.Variable] = position.term
	}
	return out, true
}

func project(solution connection.Bindings, variables []string) connection.Bindings {
	if len(variables) == 0 {
		return solution
	}
	out := make(connection.Bindings, len(variables))
	for _, variable := range variables {
		if term, ok := solution.Get(variable); ok {
			out[variable] = term
		}
	}
	return out
}
