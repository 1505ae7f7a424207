package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Player struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Position     *string          `json:"position,omitempty" db:"position"`
	BasePrice    decimal.Decimal  `json:"base_price" db:"base_price"`
	ReservePrice *decimal.Decimal `json:"reserve_price,omitempty" db:"reserve_price"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
