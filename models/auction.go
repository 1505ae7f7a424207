package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus represents auction lifecycle states, matching the ENUM in the DB.
type AuctionStatus string

const (
	AuctionStatusPending   AuctionStatus = "pending"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusPaused    AuctionStatus = "paused"
	AuctionStatusCompleted AuctionStatus = "completed"
)

// Auction is one timed sequence of players sold to teams. CurrentPlayerID
// points at the player currently on the block, nil between lots.
type Auction struct {
	ID              int             `json:"id" db:"id"`
	TournamentID    int             `json:"tournament_id" db:"tournament_id"`
	Name            string          `json:"name" db:"name"`
	Status          AuctionStatus   `json:"status" db:"status"`
	TimerSeconds    int             `json:"timer_seconds" db:"timer_seconds"`
	BidIncrement    decimal.Decimal `json:"bid_increment" db:"bid_increment"`
	CurrentPlayerID *int            `json:"current_player_id,omitempty" db:"current_player_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}
