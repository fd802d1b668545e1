package execution

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/connection/memory"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/rdf"
)

// countingEvaluator records the requests sent to the wrapped evaluator.
type countingEvaluator struct {
	connection.Evaluator
	requests []connection.Request
}

func (e *countingEvaluator) Evaluate(ctx context.Context, request connection.Request) (iteration.Iteration[connection.Bindings], error) {
	e.requests = append(e.requests, request)
	return e.Evaluator.Evaluate(ctx, request)
}

var ageQuery = connection.Query{
	Body: memory.BGP{
		{Subject: memory.Var("person"), Predicate: memory.Term(rdf.IRI("age")), Object: memory.Var("age")},
	},
	Variables: []string{"person", "age"},
}

// ageStore gives every third person no age and every fifth one two ages.
func ageStore(people int) (*memory.Store, []*Row) {
	store := memory.NewStore()
	var left []*Row
	for i := 0; i < people; i++ {
		person := rdf.IRI(fmt.Sprintf("p%03d", i))
		left = append(left, NewRow(person, rdf.NewLiteral(fmt.Sprint(i))))
		if i%3 == 0 {
			continue
		}
		store.Add(memory.Quad{Subject: person, Predicate: rdf.IRI("age"), Object: rdf.NewTypedLiteral(fmt.Sprint(20+i), rdf.XSDInteger)})
		if i%5 == 0 {
			store.Add(memory.Quad{Subject: person, Predicate: rdf.IRI("age"), Object: rdf.NewTypedLiteral(fmt.Sprint(60+i), rdf.XSDInteger)})
		}
	}
	return store, left
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func TestBatchedExternalJoin_MatchesNaiveJoin(t *testing.T) {
	ctx := context.Background()
	store, left := ageStore(25)

	naive := NewInnerJoin(NewRows(true, left...), NewSelect(store, ageQuery, connection.Dataset{}, true))
	want := collectNode(t, ctx, naive)
	require.NotEmpty(t, want)

	for _, batchSize := range []int{1, 2, 7, 25, 200} {
		t.Run(fmt.Sprintf("batch size %d", batchSize), func(t *testing.T) {
			evaluator := &countingEvaluator{Evaluator: store}
			join := NewBatchedExternalJoin(NewRows(true, left...), evaluator, ageQuery, WithBatchSize(batchSize))
			got := collectNode(t, ctx, join)

			assert.Equal(t, sorted(want), sorted(got))
			assert.Len(t, evaluator.requests, (len(left)+batchSize-1)/batchSize)
			for _, request := range evaluator.requests {
				require.NotNil(t, request.Values)
				assert.Equal(t, "person", request.Values.Variable)
				assert.LessOrEqual(t, len(request.Values.Terms), batchSize)
			}
		})
	}
}

func TestBatchedExternalJoin_Outer(t *testing.T) {
	ctx := context.Background()
	store, left := ageStore(10)

	want := collectNode(t, ctx, NewLeftOuterJoin(NewRows(true, left...), NewSelect(store, ageQuery, connection.Dataset{}, true)))
	got := collectNode(t, ctx, NewBatchedExternalJoin(NewRows(true, left...), store, ageQuery, WithBatchSize(3), Outer()))
	assert.Equal(t, sorted(want), sorted(got))
	assert.Contains(t, got, `(p000, "0")`)
}

func TestBatchedExternalJoin_DiscardedLeft(t *testing.T) {
	ctx := context.Background()
	store, left := ageStore(7)

	join := NewBatchedExternalJoin(NewRows(true, left...), store, ageQuery, WithBatchSize(2))
	discarded := join.DiscardedLeft()

	got := collectNode(t, ctx, join)
	assert.Len(t, got, 5)
	assert.Equal(t, []string{`(p000, "0")`, `(p003, "3")`, `(p006, "6")`}, collectNode(t, ctx, discarded))
}

func TestBatchedExternalJoin_Skip(t *testing.T) {
	ctx := context.Background()
	store, left := ageStore(6)

	evaluator := &countingEvaluator{Evaluator: store}
	skipped := rdf.IRI("p001")
	join := NewBatchedExternalJoin(NewRows(true, left...), evaluator, ageQuery,
		WithBatchSize(3),
		WithSkip(func(row *Row) bool { return rdf.Equal(row.Key(), skipped) }),
	)
	discarded := join.DiscardedLeft()

	got := collectNode(t, ctx, join)
	for _, r := range got {
		assert.NotContains(t, r, "p001")
	}
	assert.Contains(t, collectNode(t, ctx, discarded), `(p001, "1")`)
	for _, request := range evaluator.requests {
		assert.NotContains(t, request.Values.Terms, rdf.Term(skipped))
	}
}

func TestBatchedExternalJoin_QueryFailure(t *testing.T) {
	input := track(source([]string{"a"}))
	join := NewBatchedExternalJoin(input, failingConnection{}, ageQuery)

	stream, err := join.Get(context.Background())
	require.NoError(t, err)
	_, err = stream.HasNext()
	assert.ErrorIs(t, err, errNodeFailure)
	assert.Equal(t, 1, input.closes)
}
