package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/iteration"
)

func joinInputs() (*Rows, *Rows) {
	left := source([]string{"a", "1"}, []string{"b", "2"}, []string{"c", "3"})
	right := source([]string{"a", "10"}, []string{"a", "11"}, []string{"c", "30"})
	return left, right
}

func TestInnerJoin_Get(t *testing.T) {
	tests := []struct {
		name  string
		left  PlanNode
		right PlanNode
		want  []string
	}{
		{
			name:  "repeated right keys",
			left:  source([]string{"a", "1"}, []string{"b", "2"}, []string{"c", "3"}),
			right: source([]string{"a", "10"}, []string{"a", "11"}, []string{"c", "30"}),
			want:  []string{"(a, 1, 10)", "(a, 1, 11)", "(c, 3, 30)"},
		},
		{
			name:  "no overlap",
			left:  source([]string{"a", "1"}),
			right: source([]string{"b", "2"}),
			want:  []string{},
		},
		{
			name:  "empty left",
			left:  Empty{},
			right: source([]string{"b", "2"}),
			want:  []string{},
		},
		{
			name:  "single column rows",
			left:  source([]string{"a"}, []string{"b"}),
			right: source([]string{"b", "x"}, []string{"b", "y"}),
			want:  []string{"(b, x)", "(b, y)"},
		},
		{
			name:  "trailing right rows",
			left:  source([]string{"a", "1"}),
			right: source([]string{"a", "2"}, []string{"b", "3"}, []string{"c", "4"}),
			want:  []string{"(a, 1, 2)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectNode(t, context.Background(), NewInnerJoin(tt.left, tt.right))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInnerJoin_DiscardedLeft(t *testing.T) {
	ctx := context.Background()
	left, right := joinInputs()
	join := NewInnerJoin(left, right)
	discarded := join.DiscardedLeft()

	assert.Equal(t, []string{"(a, 1, 10)", "(a, 1, 11)", "(c, 3, 30)"}, collectNode(t, ctx, join))
	assert.Equal(t, []string{"(b, 2)"}, collectNode(t, ctx, discarded))
}

func TestInnerJoin_DiscardedPulledFirst(t *testing.T) {
	ctx := context.Background()
	left := track(source([]string{"a", "1"}, []string{"b", "2"}, []string{"d", "4"}))
	right := track(source([]string{"a", "10"}, []string{"c", "30"}, []string{"e", "50"}))
	join := NewInnerJoin(left, right)
	discardedLeft := join.DiscardedLeft()
	discardedRight := join.DiscardedRight()

	assert.Equal(t, []string{"(b, 2)", "(d, 4)"}, collectNode(t, ctx, discardedLeft))
	assert.Equal(t, []string{"(a, 1, 10)"}, collectNode(t, ctx, join))
	assert.Equal(t, []string{"(c, 30)", "(e, 50)"}, collectNode(t, ctx, discardedRight))

	assert.Equal(t, 1, left.gets)
	assert.Equal(t, 1, left.closes)
	assert.Equal(t, 1, right.closes)
}

func TestInnerJoin_SideOutputsAreSingleUse(t *testing.T) {
	ctx := context.Background()
	left, right := joinInputs()
	join := NewInnerJoin(left, right)
	join.DiscardedLeft()

	_, err := join.Get(ctx)
	require.NoError(t, err)
	_, err = join.Get(ctx)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestInnerJoin_ClosingOutputsClosesInputs(t *testing.T) {
	ctx := context.Background()
	left := track(source([]string{"a", "1"}, []string{"b", "2"}))
	right := track(source([]string{"a", "1"}, []string{"b", "2"}))
	join := NewInnerJoin(left, right)
	discarded := join.DiscardedRight()

	joined, err := join.Get(ctx)
	require.NoError(t, err)
	discardedStream, err := discarded.Get(ctx)
	require.NoError(t, err)

	_, err = joined.Next()
	require.NoError(t, err)

	require.NoError(t, joined.Close())
	assert.Equal(t, 0, left.closes, "the started discarded output is still open")

	require.NoError(t, discardedStream.Close())
	assert.Equal(t, 1, left.closes)
	assert.Equal(t, 1, right.closes)
}

func TestInnerJoin_EarlyCloseWithUnstartedSideOutput(t *testing.T) {
	ctx := context.Background()
	left := track(source([]string{"a", "1"}, []string{"b", "2"}, []string{"c", "3"}))
	right := track(source([]string{"a", "10"}, []string{"b", "20"}, []string{"c", "30"}))
	join := NewInnerJoin(left, right)
	discarded := join.DiscardedLeft()

	assert.Equal(t, []string{"(a, 1, 10)"}, collectNode(t, ctx, NewLimit(join, 1, 0)))
	assert.Equal(t, 1, left.closes)
	assert.Equal(t, 1, right.closes)

	stream, err := discarded.Get(ctx)
	require.NoError(t, err)
	_, err = iteration.Collect(stream)
	assert.ErrorIs(t, err, iteration.ErrClosed)
	assert.Equal(t, 1, left.gets)
	assert.Equal(t, 1, left.closes)
}

func TestLeftOuterJoin_Get(t *testing.T) {
	left, right := joinInputs()
	got := collectNode(t, context.Background(), NewLeftOuterJoin(left, right))
	assert.Equal(t, []string{"(a, 1, 10)", "(a, 1, 11)", "(b, 2)", "(c, 3, 30)"}, got)

	got = collectNode(t, context.Background(), NewLeftOuterJoin(
		source([]string{"a", "1"}, []string{"z", "26"}),
		source([]string{"b", "2"}),
	))
	assert.Equal(t, []string{"(a, 1)", "(z, 26)"}, got)

	got = collectNode(t, context.Background(), NewLeftOuterJoin(
		source([]string{"a", "1"}, []string{"c", "3"}),
		source([]string{"a", "10"}, []string{"a", "11"}, []string{"b", "20"}),
	))
	assert.Equal(t, []string{"(a, 1, 10)", "(a, 1, 11)", "(c, 3)"}, got, "a matched left row is never emitted again unmatched")
}

func TestEqualsJoin_Get(t *testing.T) {
	ctx := context.Background()
	left := source([]string{"a", "1"}, []string{"a", "2"}, []string{"b", "1"}, []string{"c", "1"})
	right := source([]string{"a", "2"}, []string{"b"}, []string{"b", "1"}, []string{"d", "1"})

	got := collectNode(t, ctx, NewEqualsJoin(left, right, false))
	assert.Equal(t, []string{"(a, 2, 2)", "(b, 1, 1)"}, got)

	marked := row("a", "2")
	marked.PushCausedBy("shape")
	stream, err := NewEqualsJoin(left, NewRows(false, marked), true).Get(ctx)
	require.NoError(t, err)
	out, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "(a, 2)", out.String())
	assert.Equal(t, []ShapeRef{"shape"}, out.CausedBy())
	assert.Equal(t, []*Row{marked}, out.History())
	require.NoError(t, stream.Close())
}
