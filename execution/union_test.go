package execution

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/iteration"
)

func TestUnion_Get(t *testing.T) {
	tests := []struct {
		name    string
		sources []PlanNode
		want    []string
	}{
		{
			name:    "no sources",
			sources: nil,
			want:    []string{},
		},
		{
			name:    "single source",
			sources: []PlanNode{source([]string{"a"}, []string{"b"})},
			want:    []string{"(a)", "(b)"},
		},
		{
			name: "duplicates are kept",
			sources: []PlanNode{
				source([]string{"a", "1"}, []string{"c", "1"}),
				source([]string{"a", "1"}, []string{"b", "1"}),
				source([]string{"b", "0"}, []string{"d", "1"}),
			},
			want: []string{"(a, 1)", "(a, 1)", "(b, 0)", "(b, 1)", "(c, 1)", "(d, 1)"},
		},
		{
			name: "empty inputs",
			sources: []PlanNode{
				Empty{},
				source([]string{"b"}),
				Empty{},
			},
			want: []string{"(b)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectNode(t, context.Background(), NewUnion(tt.sources...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnion_TiesPreferEarlierInputs(t *testing.T) {
	first := row("a")
	first.PushCausedBy("first")
	second := row("a")
	second.PushCausedBy("second")

	stream, err := NewUnion(NewRows(false, second), NewRows(false, first)).Get(context.Background())
	require.NoError(t, err)
	out, err := iteration.Collect(stream)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, second, out[0])
	assert.Same(t, first, out[1])
}

func TestUnion_IsSortedMultisetUnion(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	letters := []string{"a", "b", "c", "d", "e"}

	var sources []PlanNode
	counts := map[string]int{}
	for i := 0; i < 5; i++ {
		var values [][]string
		n := rnd.Intn(10)
		for j := 0; j < n; j++ {
			values = append(values, []string{letters[rnd.Intn(len(letters))], letters[rnd.Intn(len(letters))]})
		}
		input := source(values...)
		for _, r := range input.rows {
			counts[r.String()]++
		}
		sources = append(sources, NewSort(input))
	}

	stream, err := NewUnion(sources...).Get(context.Background())
	require.NoError(t, err)
	out, err := iteration.Collect(stream)
	require.NoError(t, err)

	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Compare(out[i]), 0, "rows %d and %d out of order", i-1, i)
	}
	got := map[string]int{}
	for _, r := range out {
		got[r.String()]++
	}
	assert.Equal(t, counts, got)
}

func TestUnion_ClosesSourcesOnFailure(t *testing.T) {
	first := track(source([]string{"a"}))
	stream, err := NewUnion(first, failingNode{}).Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, stream)
	assert.Equal(t, 1, first.closes)
}

func TestUnique_Get(t *testing.T) {
	tests := []struct {
		name  string
		input *Rows
		want  []string
	}{
		{
			name:  "duplicates scoped to key runs",
			input: source([]string{"a", "1"}, []string{"a", "1"}, []string{"a", "2"}, []string{"b", "1"}, []string{"a", "1"}),
			want:  []string{"(a, 1)", "(a, 2)", "(b, 1)", "(a, 1)"},
		},
		{
			name:  "non adjacent duplicates within a run",
			input: source([]string{"a", "1"}, []string{"a", "2"}, []string{"a", "1"}, []string{"b", "2"}),
			want:  []string{"(a, 1)", "(a, 2)", "(b, 2)"},
		},
		{
			name:  "single column",
			input: source([]string{"a"}, []string{"a"}, []string{"b"}, []string{"b"}, []string{"c"}),
			want:  []string{"(a)", "(b)", "(c)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectNode(t, context.Background(), NewUnique(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupByCount_Get(t *testing.T) {
	input := source(
		[]string{"a"},
		[]string{"b"},
		[]string{"b", "1"},
		[]string{"b", "2"},
		[]string{"c", "1"},
	)

	stream, err := NewGroupByCount(input).Get(context.Background())
	require.NoError(t, err)
	out, err := iteration.Collect(stream)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`(a, "0"^^<http://www.w3.org/2001/XMLSchema#integer>)`,
		`(b, "2"^^<http://www.w3.org/2001/XMLSchema#integer>)`,
		`(c, "1"^^<http://www.w3.org/2001/XMLSchema#integer>)`,
	}, render(out))
	assert.Len(t, out[1].History(), 3)
}
