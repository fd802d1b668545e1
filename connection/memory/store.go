// Package memory is an in-process quad store implementing
// connection.Connection. Queries are basic graph patterns.
package memory

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/cube2222/shaclplan/rdf"
)

// Quad is a statement. A nil Graph is the default graph.
type Quad struct {
	Subject, Predicate, Object, Graph rdf.Term
}

const (
	posSubject = iota
	posPredicate
	posObject
	posGraph
)

func (q Quad) at(pos int) rdf.Term {
	switch pos {
	case posSubject:
		return q.Subject
	case posPredicate:
		return q.Predicate
	case posObject:
		return q.Object
	default:
		return q.Graph
	}
}

// termKey distinguishes terms of different kinds with equal string forms.
func termKey(term rdf.Term) string {
	if term == nil {
		return ""
	}
	switch term.Kind() {
	case rdf.KindIRI:
		return "I" + term.String()
	case rdf.KindBlankNode:
		return "B" + term.String()
	default:
		return "L" + term.String()
	}
}

type indexItem struct {
	key  [4]string
	quad Quad
}

func (a indexItem) Less(than btree.Item) bool {
	b := than.(indexItem)
	for i := range a.key {
		if a.key[i] != b.key[i] {
			return a.key[i] < b.key[i]
		}
	}
	return false
}

type index struct {
	order [4]int
	tree  *btree.BTree
}

func newIndex(order [4]int) *index {
	return &index{order: order, tree: btree.New(16)}
}

func (idx *index) item(q Quad) indexItem {
	var item indexItem
	for i, pos := range idx.order {
		item.key[i] = termKey(q.at(pos))
	}
	item.quad = q
	return item
}

// prefixLength returns how many leading positions of the index are bound.
func (idx *index) prefixLength(pattern Quad, graphBound bool) int {
	n := 0
	for _, pos := range idx.order {
		if pos == posGraph {
			if !graphBound {
				return n
			}
		} else if pattern.at(pos) == nil {
			return n
		}
		n++
	}
	return n
}

// scan visits all quads matching the first n positions of pattern, stopping
// when fn returns false.
func (idx *index) scan(pattern Quad, n int, fn func(Quad) bool) {
	if n == 0 {
		idx.tree.Ascend(func(i btree.Item) bool {
			return fn(i.(indexItem).quad)
		})
		return
	}
	pivot := idx.item(pattern)
	for i := n; i < 4; i++ {
		pivot.key[i] = ""
	}
	idx.tree.AscendGreaterOrEqual(pivot, func(i btree.Item) bool {
		item := i.(indexItem)
		for j := 0; j < n; j++ {
			if item.key[j] != pivot.key[j] {
				return false
			}
		}
		return fn(item.quad)
	})
}

type Store struct {
	mu      sync.RWMutex
	indexes []*index
}

func NewStore() *Store {
	return &Store{
		indexes: []*index{
			newIndex([4]int{posSubject, posPredicate, posObject, posGraph}),
			newIndex([4]int{posPredicate, posObject, posSubject, posGraph}),
			newIndex([4]int{posObject, posSubject, posPredicate, posGraph}),
			newIndex([4]int{posGraph, posSubject, posPredicate, posObject}),
		},
	}
}

func (s *Store) Add(quads ...Quad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quads {
		for _, idx := range s.indexes {
			idx.tree.ReplaceOrInsert(idx.item(q))
		}
	}
}

func (s *Store) Remove(quads ...Quad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quads {
		for _, idx := range s.indexes {
			idx.tree.Delete(idx.item(q))
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexes[0].tree.Len()
}

// Match returns all quads matching the pattern. Nil terms are wildcards. No
// graphs means any graph.
func (s *Store) Match(subject, predicate, object rdf.Term, graphs ...rdf.Term) []Quad {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(graphs) == 0 {
		return s.match(Quad{Subject: subject, Predicate: predicate, Object: object}, false)
	}
	var out []Quad
	for _, graph := range graphs {
		out = append(out, s.match(Quad{Subject: subject, Predicate: predicate, Object: object, Graph: graph}, true)...)
	}
	return out
}

func (s *Store) match(pattern Quad, graphBound bool) []Quad {
	best, bestLength := s.indexes[0], -1
	for _, idx := range s.indexes {
		if n := idx.prefixLength(pattern, graphBound); n > bestLength {
			best, bestLength = idx, n
		}
	}

	var out []Quad
	best.scan(pattern, bestLength, func(q Quad) bool {
		if matches(pattern, graphBound, q) {
			out = append(out, q)
		}
		return true
	})
	return out
}

func matches(pattern Quad, graphBound bool, q Quad) bool {
	for _, pos := range []int{posSubject, posPredicate, posObject} {
		if term := pattern.at(pos); term != nil && !rdf.Equal(term, q.at(pos)) {
			return false
		}
	}
	if graphBound && !rdf.Equal(pattern.Graph, q.Graph) {
		return false
	}
	return true
}

func (s *Store) HasStatement(ctx context.Context, subject, predicate, object rdf.Term, includeInferred bool, contexts ...rdf.Term) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(s.Match(subject, predicate, object, contexts...)) > 0 {
		return true, nil
	}
	if !includeInferred || object == nil || !rdf.Equal(predicate, rdf.RDFType) {
		return false, nil
	}

	for _, class := range s.subClassesOf(object, contexts) {
		if len(s.Match(subject, predicate, class, contexts...)) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// subClassesOf returns the transitive rdfs:subClassOf descendants of class,
// excluding class itself.
func (s *Store) subClassesOf(class rdf.Term, contexts []rdf.Term) []rdf.Term {
	seen := map[string]bool{termKey(class): true}
	queue := []rdf.Term{class}
	var out []rdf.Term
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, q := range s.Match(nil, rdf.RDFSSubClassOf, current, contexts...) {
			key := termKey(q.Subject)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, q.Subject)
			queue = append(queue, q.Subject)
		}
	}
	return out
}
