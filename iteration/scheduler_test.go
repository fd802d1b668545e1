package iteration

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestScheduler_Schedule(t *testing.T) {
	mock := clock.NewMock()
	scheduler := NewScheduler(mock)
	defer scheduler.Stop()

	var ran atomic.Bool
	scheduler.Schedule(time.Second, func() { ran.Store(true) })
	assert.Equal(t, 1, scheduler.Pending())

	mock.Add(500 * time.Millisecond)
	assert.False(t, ran.Load())

	mock.Add(time.Second)
	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	assert.Equal(t, 0, scheduler.Pending())
}

func TestScheduler_Cancel(t *testing.T) {
	mock := clock.NewMock()
	scheduler := NewScheduler(mock)
	defer scheduler.Stop()

	var ran atomic.Bool
	cancel := scheduler.Schedule(time.Second, func() { ran.Store(true) })
	cancel()
	cancel()
	assert.Equal(t, 0, scheduler.Pending())

	mock.Add(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestScheduler_Stop(t *testing.T) {
	mock := clock.NewMock()
	scheduler := NewScheduler(mock)

	var ran atomic.Int32
	scheduler.Schedule(time.Second, func() { ran.Inc() })
	scheduler.Stop()
	scheduler.Schedule(time.Second, func() { ran.Inc() })

	assert.Equal(t, 0, scheduler.Pending())
	mock.Add(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), ran.Load())
}
