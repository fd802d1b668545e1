package iteration

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source, producer := newTracked(1, 2, 3)
	it := WithContext[int](ctx, source)

	value, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	cancel()
	ok, err := it.HasNext()
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.Equal(t, 1, producer.closes)

	_, err = it.Next()
	assert.True(t, errors.Is(err, ErrExhausted))
}

func TestWithContext_PassThrough(t *testing.T) {
	source, producer := newTracked(1, 2, 3)
	got := collect(t, WithContext[int](context.Background(), source))
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, producer.closes)
}
