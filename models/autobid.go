package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoBid is a standing instruction: "bid on my behalf up to MaxAmount".
// Deactivated when outbid beyond max, when the lot closes, or explicitly by
// its owner.
type AutoBid struct {
	ID              int             `json:"id" db:"id"`
	UserID          int             `json:"user_id" db:"user_id"`
	AuctionPlayerID int             `json:"auction_player_id" db:"auction_player_id"`
	MaxAmount       decimal.Decimal `json:"max_amount" db:"max_amount"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	// Populated by joins when resolving cascades.
	TeamID   int    `json:"team_id,omitempty" db:"-"`
	TeamName string `json:"team_name,omitempty" db:"-"`

	// Populated when listing a user's instructions.
	PlayerName string `json:"player_name,omitempty" db:"-"`
}
