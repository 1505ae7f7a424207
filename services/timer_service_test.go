package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimerFixture(t *testing.T) (*timerService, *fakeTimerStore, *captureHub) {
	t.Helper()
	store := newFakeTimerStore()
	hub := &captureHub{}
	svc := NewTimerService(store, hub, testLogger()).(*timerService)
	return svc, store, hub
}

func TestTickDecrementsAndBroadcasts(t *testing.T) {
	svc, store, hub := newTimerFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, 3))

	svc.tick(ctx)

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.RemainingSeconds)

	ticks := hub.byType(live.EventTimerTick)
	require.Len(t, ticks, 1)
	payload := ticks[0].Data.(live.TimerTickPayload)
	assert.Equal(t, 2, payload.RemainingSeconds)
	assert.False(t, payload.IsPaused)
}

func TestTickLeavesPausedTimerAlone(t *testing.T) {
	svc, store, hub := newTimerFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Start(ctx, 1, 10))
	require.NoError(t, store.Pause(ctx, 1))

	svc.tick(ctx)
	svc.tick(ctx)

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, state.RemainingSeconds)

	// Paused ticks still report, so clients can render the frozen clock.
	ticks := hub.byType(live.EventTimerTick)
	require.Len(t, ticks, 2)
	assert.True(t, ticks[0].Data.(live.TimerTickPayload).IsPaused)
}

func TestExpiryFiresHandlerOnce(t *testing.T) {
	svc, store, hub := newTimerFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	var fired []int
	svc.SetExpiryHandler(func(ctx context.Context, auctionID int) error {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, auctionID)
		return nil
	})

	require.NoError(t, store.Start(ctx, 7, 1))

	svc.tick(ctx) // 1 -> 0: expiry
	svc.tick(ctx) // state cleared: nothing left to drive

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{7}, fired)

	state, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, state.Found)

	assert.Len(t, hub.byType(live.EventTimerComplete), 1)
}

func TestExpiryFinalizesTheOpenLot(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	svc := NewTimerService(f.timers, f.hub, testLogger()).(*timerService)
	svc.SetExpiryHandler(f.auctions.FinalizeCurrentPlayer)

	_, err := f.bids.PlaceBid(ctx, 1, 10, 1, dec(1000))
	require.NoError(t, err)

	// Drain the 30 second window one tick at a time.
	for i := 0; i < 30; i++ {
		svc.tick(ctx)
	}

	entry, err := f.queueRepo.GetByAuctionAndPlayer(ctx, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.QueueEntrySold, entry.Status)
	assert.Len(t, f.hub.byType(live.EventTimerComplete), 1)
	assert.Len(t, f.hub.byType(live.EventPlayerSold), 1)
}

func TestRapidBidsKeepFullCountdownWindow(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Several bids inside one second: each accepted bid re-arms the clock, so
	// the survivor still gets the full window.
	amounts := []int64{1000, 1100, 1200, 1300, 1400}
	for i, amount := range amounts {
		_, err := f.bids.PlaceBid(ctx, 1, 10, i%4+1, dec(amount))
		require.NoError(t, err)
	}

	state, err := f.timers.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, state.RemainingSeconds)
	assert.Equal(t, len(amounts), f.timers.startCalls)
}
