package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueueEntryStatus follows the fixed lifecycle of a lot:
// pending -> in_progress -> sold | unsold, exactly once per entry.
type QueueEntryStatus string

const (
	QueueEntryPending    QueueEntryStatus = "pending"
	QueueEntryInProgress QueueEntryStatus = "in_progress"
	QueueEntrySold       QueueEntryStatus = "sold"
	QueueEntryUnsold     QueueEntryStatus = "unsold"
)

// AuctionPlayer is one entry of the fixed auction queue. Order is set at
// auction setup and never changes while the auction runs.
type AuctionPlayer struct {
	ID           int              `json:"id" db:"id"`
	AuctionID    int              `json:"auction_id" db:"auction_id"`
	PlayerID     int              `json:"player_id" db:"player_id"`
	OrderIndex   int              `json:"order_index" db:"order_index"`
	Status       QueueEntryStatus `json:"status" db:"status"`
	SoldToTeamID *int             `json:"sold_to_team_id,omitempty" db:"sold_to_team_id"`
	FinalPrice   *decimal.Decimal `json:"final_price,omitempty" db:"final_price"`
	EndedAt      *time.Time       `json:"ended_at,omitempty" db:"ended_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
