package extract_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loadingPage = `<html><body><div class="loader"></div></body></html>`

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("returns as soon as the page is ready", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		snapshot := func(ctx context.Context) (prospect.Document, error) {
			if calls.Add(1) < 3 {
				return parse(t, loadingPage), nil
			}
			return parse(t, headlinePage), nil
		}

		doc, err := extract.Wait(context.Background(), snapshot, extract.WaitConfig{
			Interval: time.Millisecond,
			Timeout:  time.Minute,
		})

		require.NoError(t, err)
		assert.True(t, extract.Ready(doc))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("returns the last snapshot when the timeout elapses", func(t *testing.T) {
		t.Parallel()

		snapshot := func(ctx context.Context) (prospect.Document, error) {
			return parse(t, loadingPage), nil
		}

		start := time.Now()
		doc, err := extract.Wait(context.Background(), snapshot, extract.WaitConfig{
			Interval: time.Millisecond,
			Timeout:  20 * time.Millisecond,
		})

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.False(t, extract.Ready(doc))
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("cancellation is an error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		snapshot := func(ctx context.Context) (prospect.Document, error) {
			return parse(t, loadingPage), nil
		}

		doc, err := extract.Wait(ctx, snapshot, extract.WaitConfig{
			Interval: time.Hour,
			Timeout:  time.Hour,
		})

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("snapshot errors are returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("page closed")
		snapshot := func(ctx context.Context) (prospect.Document, error) {
			return nil, boom
		}

		_, err := extract.Wait(context.Background(), snapshot, extract.WaitConfig{})

		assert.ErrorIs(t, err, boom)
	})
}

func TestReady(t *testing.T) {
	t.Parallel()

	assert.False(t, extract.Ready(nil))
	assert.False(t, extract.Ready(parse(t, loadingPage)))
	assert.True(t, extract.Ready(parse(t, singleRolePage)))
	assert.True(t, extract.Ready(parse(t, `<div class="artdeco-entity-lockup"></div>`)))
}
