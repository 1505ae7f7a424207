package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/auction-system/live"
	"github.com/Dosada05/auction-system/timerstore"
)

// ExpiryHandler is invoked once when an auction's countdown reaches zero.
type ExpiryHandler func(ctx context.Context, auctionID int) error

type TimerService interface {
	// Run drives every active countdown at a one-second cadence until the
	// context is canceled. Per-auction failures are logged, never fatal.
	Run(ctx context.Context)
	// SetExpiryHandler wires the zero-reached callback. Must be called before
	// Run; the handler finalizes the expired lot.
	SetExpiryHandler(handler ExpiryHandler)

	Get(ctx context.Context, auctionID int) (timerstore.State, error)
	Pause(ctx context.Context, auctionID int) error
	Resume(ctx context.Context, auctionID int) error
	Reset(ctx context.Context, auctionID, seconds int) error
	Extend(ctx context.Context, auctionID, extraSeconds int) error
	// Stop removes the countdown without firing the expiry handler.
	Stop(ctx context.Context, auctionID int) error
}

type timerService struct {
	timers timerstore.Store
	hub    live.Broadcaster
	logger *slog.Logger

	mu       sync.RWMutex
	onExpiry ExpiryHandler
}

func NewTimerService(timers timerstore.Store, hub live.Broadcaster, logger *slog.Logger) TimerService {
	return &timerService{
		timers: timers,
		hub:    hub,
		logger: logger,
	}
}

func (s *timerService) SetExpiryHandler(handler ExpiryHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpiry = handler
}

func (s *timerService) expiryHandler() ExpiryHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onExpiry
}

func (s *timerService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	s.logger.Info("countdown loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("countdown loop stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *timerService) tick(ctx context.Context) {
	auctionIDs, err := s.timers.ActiveAuctions(ctx)
	if err != nil {
		s.logger.Error("failed to list active countdowns", slog.Any("error", err))
		return
	}

	for _, auctionID := range auctionIDs {
		if err := s.tickAuction(ctx, auctionID); err != nil {
			s.logger.Error("countdown tick failed",
				slog.Int("auction_id", auctionID), slog.Any("error", err))
		}
	}
}

func (s *timerService) tickAuction(ctx context.Context, auctionID int) error {
	state, err := s.timers.Get(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("read countdown: %w", err)
	}
	if !state.Found {
		return nil
	}
	if state.Paused() {
		s.hub.BroadcastToAuction(auctionID, live.Event{
			Type: live.EventTimerTick,
			Data: live.TimerTickPayload{RemainingSeconds: state.RemainingSeconds, IsPaused: true},
		})
		return nil
	}

	remaining, err := s.timers.Decrement(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("decrement countdown: %w", err)
	}

	if remaining > 0 {
		s.hub.BroadcastToAuction(auctionID, live.Event{
			Type: live.EventTimerTick,
			Data: live.TimerTickPayload{RemainingSeconds: remaining, IsPaused: false},
		})
		return nil
	}

	// Expired. Clear before finalizing so a slow handler cannot fire twice
	// on the next tick.
	if err := s.timers.Clear(ctx, auctionID); err != nil {
		return fmt.Errorf("clear expired countdown: %w", err)
	}
	s.hub.BroadcastToAuction(auctionID, live.Event{
		Type: live.EventTimerComplete,
		Data: live.TimerCompletePayload{AuctionID: auctionID},
	})

	if handler := s.expiryHandler(); handler != nil {
		if err := handler(ctx, auctionID); err != nil {
			return fmt.Errorf("expiry handler: %w", err)
		}
	}
	return nil
}

func (s *timerService) Get(ctx context.Context, auctionID int) (timerstore.State, error) {
	return s.timers.Get(ctx, auctionID)
}

func (s *timerService) Pause(ctx context.Context, auctionID int) error {
	return s.timers.Pause(ctx, auctionID)
}

func (s *timerService) Resume(ctx context.Context, auctionID int) error {
	return s.timers.Resume(ctx, auctionID)
}

func (s *timerService) Reset(ctx context.Context, auctionID, seconds int) error {
	return s.timers.Start(ctx, auctionID, seconds)
}

func (s *timerService) Extend(ctx context.Context, auctionID, extraSeconds int) error {
	return s.timers.Extend(ctx, auctionID, extraSeconds)
}

func (s *timerService) Stop(ctx context.Context, auctionID int) error {
	return s.timers.Clear(ctx, auctionID)
}
