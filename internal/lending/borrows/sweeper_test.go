package borrows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/cache"
)

func TestSweeper_SweepsOnStartAndOnTick(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now)

	_, err := svc.Create(context.Background(), member, createRequest(1, now.Add(-48*time.Hour)))
	require.NoError(t, err)

	w := NewSweeper(svc, 10*time.Millisecond)
	w.clock = fixedClock{t: now}
	w.Start()

	assert.Eventually(t, func() bool {
		return store.sweeps() >= 2
	}, time.Second, 5*time.Millisecond)
	w.Stop()

	assert.Equal(t, StatusOverdue, store.status(1))
}

func TestSweeper_SurvivesFailedTick(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.sweepErr = errors.New("db gone")
	svc := NewServiceWith(store, cache.NewMemory(), fixedClock{t: now})

	w := NewSweeper(svc, 10*time.Millisecond)
	w.clock = fixedClock{t: now}
	w.Start()

	// The loop keeps ticking after errors instead of dying.
	assert.Eventually(t, func() bool {
		return store.sweeps() >= 3
	}, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestSweeper_StopWaitsForLoop(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	w := NewSweeper(svc, time.Hour)
	w.Start()
	w.Stop()

	select {
	case <-w.done:
	default:
		t.Fatal("sweeper loop still running after Stop")
	}
}
