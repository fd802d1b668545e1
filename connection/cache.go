package connection

import (
	"context"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/rdf"
)

// CachedConnection remembers HasStatement answers. It assumes the underlying
// data doesn't change for the lifetime of the cache.
type CachedConnection struct {
	Connection
	cache *ristretto.Cache
}

func NewCachedConnection(conn Connection, maxEntries int64) (*CachedConnection, error) {
	if maxEntries <= 0 {
		return nil, errors.Errorf("invalid existence check cache size: %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create existence check cache")
	}
	return &CachedConnection{
		Connection: conn,
		cache:      cache,
	}, nil
}

func (c *CachedConnection) HasStatement(ctx context.Context, subject, predicate, object rdf.Term, includeInferred bool, contexts ...rdf.Term) (bool, error) {
	key := statementKey(subject, predicate, object, includeInferred, contexts)
	if value, ok := c.cache.Get(key); ok {
		return value.(bool), nil
	}

	exists, err := c.Connection.HasStatement(ctx, subject, predicate, object, includeInferred, contexts...)
	if err != nil {
		return false, err
	}
	c.cache.Set(key, exists, 1)
	return exists, nil
}

func (c *CachedConnection) Close() {
	c.cache.Close()
}

func statementKey(subject, predicate, object rdf.Term, includeInferred bool, contexts []rdf.Term) string {
	var sb strings.Builder
	for _, term := range append([]rdf.Term{subject, predicate, object}, contexts...) {
		if term == nil {
			sb.WriteString("*")
		} else {
			sb.WriteString(term.Kind().String())
			sb.WriteByte(':')
			sb.WriteString(term.String())
		}
		sb.WriteByte(0)
	}
	if includeInferred {
		sb.WriteString("inferred")
	}
	return sb.String()
}
