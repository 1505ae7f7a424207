package models

import "time"

const (
	NotificationAutoBidPlaced = "AUTO_BID_PLACED"
	NotificationAutoBidOutbid = "AUTO_BID_OUTBID"
)

type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
