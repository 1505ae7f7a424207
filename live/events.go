package live

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types pushed to auction observers. One event per state change.
const (
	EventBidUpdated       = "BID_UPDATED"
	EventTimerTick        = "TIMER_TICK"
	EventTimerComplete    = "TIMER_COMPLETE"
	EventPlayerSold       = "PLAYER_SOLD"
	EventPlayerUnsold     = "PLAYER_UNSOLD"
	EventPlayerOnBlock    = "PLAYER_ON_BLOCK"
	EventBidUndone        = "BID_UNDONE"
	EventAuctionStarted   = "AUCTION_STARTED"
	EventAuctionPaused    = "AUCTION_PAUSED"
	EventAuctionResumed   = "AUCTION_RESUMED"
	EventAuctionCompleted = "AUCTION_COMPLETED"
)

// Event is the envelope every observer receives.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type BidUpdatedPayload struct {
	BidID     int             `json:"bid_id"`
	TeamID    int             `json:"team_id"`
	TeamName  string          `json:"team_name"`
	PlayerID  int             `json:"player_id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type TimerTickPayload struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	IsPaused         bool `json:"is_paused"`
}

type TimerCompletePayload struct {
	AuctionID int `json:"auction_id"`
}

type PlayerOnBlockPayload struct {
	PlayerID   int             `json:"player_id"`
	PlayerName string          `json:"player_name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Position   *string         `json:"position,omitempty"`
}

type PlayerSoldPayload struct {
	PlayerID    int             `json:"player_id"`
	PlayerName  string          `json:"player_name"`
	TeamID      int             `json:"team_id"`
	TeamName    string          `json:"team_name"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// PlayerUnsoldPayload carries a human-readable reason suffix in PlayerName
// when the lot failed reserve or squad checks, e.g. "Smith (Reserve not met)".
type PlayerUnsoldPayload struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type UndoneBid struct {
	TeamID int             `json:"team_id"`
	Amount decimal.Decimal `json:"amount"`
}

type NewHighestBid struct {
	TeamID   int             `json:"team_id"`
	TeamName string          `json:"team_name"`
	Amount   decimal.Decimal `json:"amount"`
}

type BidUndonePayload struct {
	PlayerID   int            `json:"player_id"`
	UndoneBid  UndoneBid      `json:"undone_bid"`
	NewHighest *NewHighestBid `json:"new_highest"`
}

type AuctionStatusPayload struct {
	AuctionID int    `json:"auction_id"`
	Status    string `json:"status"`
}

// Broadcaster fans an event out to every observer of one auction.
// Delivery is best effort; reconnect-and-resync is the recovery path.
type Broadcaster interface {
	BroadcastToAuction(auctionID int, event Event)
}
