package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Team struct {
	ID              int             `json:"id" db:"id"`
	TournamentID    int             `json:"tournament_id" db:"tournament_id"`
	Name            string          `json:"name" db:"name"`
	OwnerID         int             `json:"owner_id" db:"owner_id"`
	Budget          decimal.Decimal `json:"budget" db:"budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget" db:"remaining_budget"`
	MaxPlayers      int             `json:"max_players" db:"max_players"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
