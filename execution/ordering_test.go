package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/iteration"
)

func TestOrderAssertions(t *testing.T) {
	tests := []struct {
		name string
		node PlanNode
	}{
		{
			name: "inner join with unsorted right",
			node: NewInnerJoin(source([]string{"a"}, []string{"b"}), source([]string{"b"}, []string{"a"})),
		},
		{
			name: "inner join with duplicate left keys",
			node: NewInnerJoin(source([]string{"a", "1"}, []string{"a", "2"}), source([]string{"a"})),
		},
		{
			name: "union with unsorted source",
			node: NewUnion(source([]string{"a"}), source([]string{"c"}, []string{"b"})),
		},
		{
			name: "unique with unsorted source",
			node: NewUnique(source([]string{"b"}, []string{"a"})),
		},
		{
			name: "group by count with unsorted source",
			node: NewGroupByCount(source([]string{"b"}, []string{"a"})),
		},
		{
			name: "equals join with unsorted left",
			node: NewEqualsJoin(source([]string{"b", "1"}, []string{"a", "1"}), source([]string{"c", "1"}), false),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithOrderAssertions(context.Background())
			stream, err := tt.node.Get(ctx)
			require.NoError(t, err)
			_, err = iteration.Collect(stream)
			assert.ErrorIs(t, err, ErrUnsorted)

			stream, err = tt.node.Get(context.Background())
			require.NoError(t, err)
			_, err = iteration.Collect(stream)
			assert.NoError(t, err, "without assertions the precondition isn't checked")
		})
	}
}

func TestOrderAssertions_AcceptSortedInput(t *testing.T) {
	ctx := WithOrderAssertions(context.Background())
	left, right := joinInputs()
	got := collectNode(t, ctx, NewInnerJoin(left, right))
	assert.Len(t, got, 3)
}
