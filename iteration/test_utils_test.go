package iteration

import (
	"hash/fnv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type word string

func (w word) Equal(other word) bool { return w == other }

func (w word) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(w))
	return h.Sum64()
}

func words(items ...string) []word {
	out := make([]word, len(items))
	for i := range items {
		out[i] = word(items[i])
	}
	return out
}

// trackedProducer counts HandleClose calls and can fail after a number of
// produced elements.
type trackedProducer[T any] struct {
	items    []T
	index    int
	failAt   int
	failWith error
	closes   int
}

func (p *trackedProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	if p.failWith != nil && p.index == p.failAt {
		return zero, false, p.failWith
	}
	if p.index >= len(p.items) {
		return zero, false, nil
	}
	p.index++
	return p.items[p.index-1], true, nil
}

func (p *trackedProducer[T]) HandleClose() error {
	p.closes++
	return nil
}

func newTracked[T any](items ...T) (*LookAhead[T], *trackedProducer[T]) {
	p := &trackedProducer[T]{items: items}
	return NewLookAhead[T](p), p
}

func newFailing[T any](failAt int, items ...T) (*LookAhead[T], *trackedProducer[T]) {
	p := &trackedProducer[T]{items: items, failAt: failAt, failWith: errors.New("upstream failure")}
	return NewLookAhead[T](p), p
}

func collect[T any](t *testing.T, it Iteration[T]) []T {
	t.Helper()
	out, err := Collect(it)
	require.NoError(t, err)
	return out
}
