package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitPacer(t *testing.T) {
	t.Parallel()

	t.Run("implements rankcrawl.VisitPacer interface", func(t *testing.T) {
		t.Parallel()
		var _ rankcrawl.VisitPacer = crawl.NewVisitPacer(1)
	})

	t.Run("first visit is immediate", func(t *testing.T) {
		t.Parallel()

		pacer := crawl.NewVisitPacer(10)

		start := time.Now()
		err := pacer.Wait(context.Background())

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces consecutive visits", func(t *testing.T) {
		t.Parallel()

		pacer := crawl.NewVisitPacer(10) // 100ms between visits

		require.NoError(t, pacer.Wait(context.Background()))

		start := time.Now()
		err := pacer.Wait(context.Background())

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("zero rate never waits", func(t *testing.T) {
		t.Parallel()

		pacer := crawl.NewVisitPacer(0)

		start := time.Now()
		for range 100 {
			require.NoError(t, pacer.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		pacer := crawl.NewVisitPacer(1)
		require.NoError(t, pacer.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, pacer.Wait(ctx))
	})

	t.Run("concurrent waiters all proceed", func(t *testing.T) {
		t.Parallel()

		pacer := crawl.NewVisitPacer(200)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if pacer.Wait(context.Background()) == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}
