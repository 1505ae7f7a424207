package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is immutable once committed; the bids table is append-only per
// (auction, player). The administrative undo deletes the latest record, it
// never updates one.
type Bid struct {
	ID        int             `json:"id" db:"id"`
	AuctionID int             `json:"auction_id" db:"auction_id"`
	PlayerID  int             `json:"player_id" db:"player_id"`
	TeamID    int             `json:"team_id" db:"team_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// BidWithTeam is a bid joined with the bidding team's name for display.
type BidWithTeam struct {
	Bid
	TeamName string `json:"team_name" db:"team_name"`
}
