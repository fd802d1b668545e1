package execution

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/shaclplan/connection/memory"
	"github.com/cube2222/shaclplan/rdf"
)

func typedStore() *memory.Store {
	store := memory.NewStore()
	store.Add(
		memory.Quad{Subject: rdf.IRI("alice"), Predicate: rdf.RDFType, Object: rdf.IRI("Person")},
		memory.Quad{Subject: rdf.IRI("bob"), Predicate: rdf.RDFType, Object: rdf.IRI("Student")},
		memory.Quad{Subject: rdf.IRI("Student"), Predicate: rdf.RDFSSubClassOf, Object: rdf.IRI("Person")},
	)
	return store
}

func TestFilterNode_Get(t *testing.T) {
	store := typedStore()
	input := NewRows(false,
		row("alice", "1"),
		row("bob", "2"),
		NewRow(rdf.BlankNode("b0"), rdf.IRI("3")),
		NewRow(rdf.IRI("carol"), rdf.NewLiteral("4")),
	)

	tests := []struct {
		name      string
		condition Condition
		want      []string
	}{
		{
			name:      "asserted type",
			condition: &TypeFilter{Connection: store, Types: []rdf.Term{rdf.IRI("Person")}},
			want:      []string{"(alice, 1)"},
		},
		{
			name:      "inferred type",
			condition: &TypeFilter{Connection: store, Types: []rdf.Term{rdf.IRI("Person")}, IncludeInferred: true},
			want:      []string{"(alice, 1)", "(bob, 2)"},
		},
		{
			name:      "value in",
			condition: NewValueIn(1, rdf.IRI("2"), rdf.IRI("3")),
			want:      []string{"(bob, 2)", "(_:b0, 3)"},
		},
		{
			name:      "node kind of leading column",
			condition: &NodeKind{Column: 0, Kinds: BlankNodeKind},
			want:      []string{"(_:b0, 3)"},
		},
		{
			name:      "node kind of value column",
			condition: &NodeKind{Column: 1, Kinds: IRIKind | BlankNodeKind},
			want:      []string{"(alice, 1)", "(bob, 2)", "(_:b0, 3)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectNode(t, context.Background(), NewFilter(input, tt.condition))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterNode_Rejected(t *testing.T) {
	ctx := context.Background()
	filter := NewFilter(
		source([]string{"a", "1"}, []string{"b", "2"}, []string{"c", "1"}),
		NewValueIn(1, rdf.IRI("1")),
	)
	rejected := filter.Rejected()
	accepted := filter.Accepted()

	assert.Equal(t, []string{"(b, 2)"}, collectNode(t, ctx, rejected))
	assert.Equal(t, []string{"(a, 1)", "(c, 1)"}, collectNode(t, ctx, accepted))
}

func TestFilterNode_AcceptedClosedEarly(t *testing.T) {
	input := track(source([]string{"a", "1"}, []string{"b", "1"}, []string{"c", "2"}))
	filter := NewFilter(input, NewValueIn(1, rdf.IRI("1")))

	got := collectNode(t, context.Background(), NewLimit(filter.Accepted(), 1, 0))
	assert.Equal(t, []string{"(a, 1)"}, got)
	assert.Equal(t, 1, input.gets)
	assert.Equal(t, 1, input.closes)
}

func TestFilterNode_ReportsRejectedRows(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(previous)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	ctx := logger.WithContext(context.Background())

	filter := NewFilter(source([]string{"a", "1"}, []string{"b", "2"}), NewValueIn(1, rdf.IRI("1")))
	collectNode(t, ctx, filter)

	assert.Contains(t, buf.String(), `"message":"row rejected"`)
	assert.Contains(t, buf.String(), `"row":"(b, 2)"`)
	assert.NotContains(t, buf.String(), `"row":"(a, 1)"`)
}

func TestFilterNode_PropagatesConditionFailure(t *testing.T) {
	input := track(source([]string{"a"}))
	filter := NewFilter(input, &TypeFilter{Connection: failingConnection{}, Types: []rdf.Term{rdf.IRI("T")}})

	stream, err := filter.Get(context.Background())
	require.NoError(t, err)
	_, err = stream.HasNext()
	assert.ErrorIs(t, err, errNodeFailure)
	assert.Equal(t, 1, input.closes)
}
