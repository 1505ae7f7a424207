package models

import (
	"encoding/json"
	"time"
)

// AuctionEvent is one append-only record of the auction event log, kept for
// replay. The engine only ever writes these.
type AuctionEvent struct {
	ID        string          `json:"id" db:"id"`
	AuctionID int             `json:"auction_id" db:"auction_id"`
	Type      string          `json:"type" db:"type"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
