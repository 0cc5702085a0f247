package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerProcessesTasks(t *testing.T) {
	m := NewManager(3, 10)
	m.Start(context.Background())

	var running, peak atomic.Int32
	var results []<-chan Result
	for i := 0; i < 10; i++ {
		ch, err := m.Enqueue(context.Background(), fmt.Sprintf("task-%d", i), func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			if i%5 == 0 {
				return errors.New("boom")
			}
			return nil
		})
		require.NoError(t, err)
		results = append(results, ch)
	}

	failed := 0
	for _, ch := range results {
		if r := <-ch; r.Error != nil {
			failed++
		}
	}
	m.Close()

	assert.Equal(t, 2, failed)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	status := m.GetQueueStatus()
	assert.Equal(t, 10, status.ProcessedCount)
	assert.Equal(t, 2, status.FailedCount)
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(1, 1)
	m.Start(context.Background())
	m.Close()

	_, err := m.Enqueue(context.Background(), "late", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "closed")
}

func TestEnqueueWhenFull(t *testing.T) {
	m := NewManager(1, 1)
	// 未啟動 worker，佇列很快就滿
	_, err := m.Enqueue(context.Background(), "a", func(context.Context) error { return nil })
	require.NoError(t, err)
	_, err = m.Enqueue(context.Background(), "b", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "full")

	m.Start(context.Background())
	m.Close()
}
