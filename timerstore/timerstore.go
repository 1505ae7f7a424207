// Package timerstore keeps per-auction countdown state in a shared
// low-latency store so it survives an engine restart and is visible to every
// engine replica.
package timerstore

import "context"

type Status string

const (
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is the countdown snapshot for one auction. Found reports whether any
// timer exists; an absent timer reads as zero seconds, not running.
type State struct {
	RemainingSeconds int
	Status           Status
	Found            bool
}

func (s State) Running() bool { return s.Found && s.Status == StatusRunning }
func (s State) Paused() bool  { return s.Found && s.Status == StatusPaused }

type Store interface {
	// Start resets the countdown to the given duration and forces it running,
	// regardless of any prior paused state.
	Start(ctx context.Context, auctionID, seconds int) error
	Pause(ctx context.Context, auctionID int) error
	Resume(ctx context.Context, auctionID int) error
	Extend(ctx context.Context, auctionID, extraSeconds int) error
	Get(ctx context.Context, auctionID int) (State, error)
	// Decrement atomically lowers the remaining seconds by one and returns
	// the new value.
	Decrement(ctx context.Context, auctionID int) (int, error)
	Clear(ctx context.Context, auctionID int) error
	// ActiveAuctions lists ids of auctions that currently hold timer state.
	ActiveAuctions(ctx context.Context) ([]int, error)
}
