package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/google/uuid"
)

// EventRecorder appends engine events to the replay log. Recording is
// fire-and-forget: a failed append is logged and never surfaces into the
// bid path.
type EventRecorder interface {
	Record(ctx context.Context, auctionID int, eventType string, data interface{})
}

type dbEventRecorder struct {
	events repositories.EventRepository
	logger *slog.Logger
}

func NewEventRecorder(events repositories.EventRepository, logger *slog.Logger) EventRecorder {
	return &dbEventRecorder{events: events, logger: logger}
}

func (r *dbEventRecorder) Record(ctx context.Context, auctionID int, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		r.logger.Warn("failed to marshal event for recording",
			slog.Int("auction_id", auctionID), slog.String("type", eventType), slog.Any("error", err))
		return
	}

	event := &models.AuctionEvent{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		Type:      eventType,
		Data:      payload,
	}
	if err := r.events.Append(ctx, nil, event); err != nil {
		r.logger.Warn("failed to record auction event",
			slog.Int("auction_id", auctionID), slog.String("type", eventType), slog.Any("error", err))
	}
}
