package planfile

import (
	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/rdf"
)

// Builder turns a plan file into plan nodes querying Connection.
type Builder struct {
	Connection connection.Connection
	// BatchSize is used by batched joins which don't set their own.
	BatchSize int
	// QueueCapacity is used by prefetch nodes which don't set their own.
	QueueCapacity int

	prefixes  map[string]string
	named     map[string]*Node
	built     map[string]execution.PlanNode
	building  map[string]bool
	splitters map[string]*execution.BufferSplitter
}

func (b *Builder) Build(file *File) (execution.PlanNode, error) {
	b.prefixes = map[string]string{}
	for prefix, namespace := range defaultPrefixes {
		b.prefixes[prefix] = namespace
	}
	for prefix, namespace := range file.Prefixes {
		b.prefixes[prefix] = namespace
	}
	b.named = file.Nodes
	b.built = map[string]execution.PlanNode{}
	b.building = map[string]bool{}
	b.splitters = map[string]*execution.BufferSplitter{}

	root, err := b.build(file.Root)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build root")
	}
	return root, nil
}

func (b *Builder) ref(name string) (execution.PlanNode, error) {
	if node, ok := b.built[name]; ok {
		return node, nil
	}
	desc, ok := b.named[name]
	if !ok {
		return nil, errors.Errorf("unknown node '%s'", name)
	}
	if b.building[name] {
		return nil, errors.Errorf("node '%s' depends on itself", name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	node, err := b.build(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build node '%s'", name)
	}
	b.built[name] = node
	return node, nil
}

func (b *Builder) build(desc *Node) (execution.PlanNode, error) {
	if desc == nil {
		return nil, errors.New("missing node")
	}
	if desc.Ref != "" {
		return b.ref(desc.Ref)
	}

	switch desc.Type {
	case "empty":
		return execution.Empty{}, nil

	case "rows":
		rows := make([]*execution.Row, len(desc.Rows))
		for i := range desc.Rows {
			terms, err := b.parseTerms(desc.Rows[i])
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't parse row with index %d", i)
			}
			if len(terms) == 0 {
				return nil, errors.Errorf("row with index %d is empty", i)
			}
			rows[i] = execution.NewRow(terms...)
		}
		return execution.NewRows(desc.Sorted, rows...), nil

	case "select":
		query, dataset, err := b.query(desc)
		if err != nil {
			return nil, err
		}
		return execution.NewSelect(b.Connection, query, dataset, desc.Sorted), nil

	case "filter":
		source, err := b.build(desc.Source)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't build filter source")
		}
		condition, err := b.condition(desc.Condition)
		if err != nil {
			return nil, err
		}
		return execution.NewFilter(source, condition), nil

	case "innerJoin", "leftOuterJoin", "equalsJoin", "intersect", "minus":
		return b.binary(desc)

	case "union":
		sources := make([]execution.PlanNode, len(desc.Sources))
		for i := range desc.Sources {
			source, err := b.build(desc.Sources[i])
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't build union source with index %d", i)
			}
			sources[i] = source
		}
		return execution.NewUnion(sources...), nil

	case "unique", "groupByCount", "sort", "distinct", "reduced", "trim", "limit", "prefetch":
		return b.unary(desc)

	case "batchedJoin":
		return b.batchedJoin(desc)

	case "discarded":
		return b.discarded(desc)

	case "rejected":
		owner, err := b.ref(desc.Of)
		if err != nil {
			return nil, err
		}
		filter, ok := owner.(*execution.FilterNode)
		if !ok {
			return nil, errors.Errorf("node '%s' isn't a filter", desc.Of)
		}
		return filter.Rejected(), nil

	case "split":
		splitter, ok := b.splitters[desc.Of]
		if !ok {
			source, err := b.ref(desc.Of)
			if err != nil {
				return nil, err
			}
			splitter = execution.NewBufferSplitter(source)
			b.splitters[desc.Of] = splitter
		}
		return splitter.Output(), nil

	default:
		return nil, errors.Errorf("unknown node type '%s'", desc.Type)
	}
}

func (b *Builder) binary(desc *Node) (execution.PlanNode, error) {
	left, err := b.build(desc.Left)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build left side of %s", desc.Type)
	}
	right, err := b.build(desc.Right)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build right side of %s", desc.Type)
	}

	switch desc.Type {
	case "innerJoin":
		return execution.NewInnerJoin(left, right), nil
	case "leftOuterJoin":
		return execution.NewLeftOuterJoin(left, right), nil
	case "equalsJoin":
		return execution.NewEqualsJoin(left, right, desc.UseAsFilter), nil
	case "intersect":
		return execution.NewIntersect(left, right, desc.Distinct), nil
	default:
		return execution.NewMinus(left, right, desc.Distinct), nil
	}
}

func (b *Builder) unary(desc *Node) (execution.PlanNode, error) {
	source, err := b.build(desc.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build source of %s", desc.Type)
	}

	switch desc.Type {
	case "unique":
		return execution.NewUnique(source), nil
	case "groupByCount":
		return execution.NewGroupByCount(source), nil
	case "sort":
		return execution.NewSort(source), nil
	case "distinct":
		return execution.NewDistinct(source), nil
	case "reduced":
		return execution.NewReduced(source), nil
	case "trim":
		if len(desc.Columns) == 0 {
			return nil, errors.New("trim without columns")
		}
		return execution.NewTrim(source, desc.Columns...), nil
	case "limit":
		limit := int64(-1)
		if desc.Limit != nil {
			limit = *desc.Limit
		}
		return execution.NewLimit(source, limit, desc.Offset), nil
	default:
		capacity := desc.Capacity
		if capacity == 0 {
			capacity = b.QueueCapacity
		}
		return execution.NewPrefetch(source, capacity), nil
	}
}

func (b *Builder) query(desc *Node) (connection.Query, connection.Dataset, error) {
	bgp, err := b.parseBGP(desc.Patterns)
	if err != nil {
		return connection.Query{}, connection.Dataset{}, errors.Wrapf(err, "couldn't parse %s query", desc.Type)
	}
	if len(desc.Variables) == 0 {
		return connection.Query{}, connection.Dataset{}, errors.Errorf("%s without variables", desc.Type)
	}
	graphs, err := b.parseTerms(desc.Graphs)
	if err != nil {
		return connection.Query{}, connection.Dataset{}, errors.Wrap(err, "couldn't parse graphs")
	}
	return connection.Query{Body: bgp, Variables: desc.Variables}, connection.Dataset{Graphs: graphs}, nil
}

func (b *Builder) batchedJoin(desc *Node) (execution.PlanNode, error) {
	left, err := b.build(desc.Left)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build left side of batched join")
	}
	query, dataset, err := b.query(desc)
	if err != nil {
		return nil, err
	}

	batchSize := desc.BatchSize
	if batchSize == 0 {
		batchSize = b.BatchSize
	}
	opts := []execution.BatchedJoinOption{
		execution.WithBatchSize(batchSize),
		execution.WithDataset(dataset),
	}
	if desc.Outer {
		opts = append(opts, execution.Outer())
	}
	if len(desc.SkipValues) > 0 {
		skip, err := b.parseTerms(desc.SkipValues)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse skipped values")
		}
		set := make(map[rdf.Term]struct{}, len(skip))
		for _, term := range skip {
			set[term] = struct{}{}
		}
		opts = append(opts, execution.WithSkip(func(row *execution.Row) bool {
			_, ok := set[row.Key()]
			return ok
		}))
	}
	return execution.NewBatchedExternalJoin(left, b.Connection, query, opts...), nil
}

func (b *Builder) discarded(desc *Node) (execution.PlanNode, error) {
	owner, err := b.ref(desc.Of)
	if err != nil {
		return nil, err
	}
	switch owner := owner.(type) {
	case *execution.InnerJoin:
		switch desc.Side {
		case "left", "":
			return owner.DiscardedLeft(), nil
		case "right":
			return owner.DiscardedRight(), nil
		}
		return nil, errors.Errorf("invalid discarded side '%s'", desc.Side)
	case *execution.BatchedExternalJoin:
		if desc.Side == "right" {
			return nil, errors.New("batched joins only discard left rows")
		}
		if owner.IsOuter() {
			return nil, errors.Errorf("outer batched join '%s' doesn't discard rows", desc.Of)
		}
		return owner.DiscardedLeft(), nil
	default:
		return nil, errors.Errorf("node '%s' doesn't discard rows", desc.Of)
	}
}

func (b *Builder) condition(desc *Condition) (execution.Condition, error) {
	if desc == nil {
		return nil, errors.New("filter without condition")
	}
	switch desc.Type {
	case "type":
		types, err := b.parseTerms(desc.Types)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse types")
		}
		return &execution.TypeFilter{
			Connection:      b.Connection,
			Column:          desc.Column,
			Types:           types,
			IncludeInferred: desc.Inferred,
		}, nil
	case "valueIn":
		values, err := b.parseTerms(desc.Values)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse values")
		}
		return execution.NewValueIn(desc.Column, values...), nil
	case "nodeKind":
		var mask execution.NodeKindMask
		for _, kind := range desc.Kinds {
			switch kind {
			case "iri":
				mask |= execution.IRIKind
			case "blank":
				mask |= execution.BlankNodeKind
			case "literal":
				mask |= execution.LiteralKind
			default:
				return nil, errors.Errorf("unknown node kind '%s'", kind)
			}
		}
		return &execution.NodeKind{Column: desc.Column, Kinds: mask}, nil
	default:
		return nil, errors.Errorf("unknown condition type '%s'", desc.Type)
	}
}
