package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/auction-system/repositories"
	"github.com/Dosada05/auction-system/storage"
	"github.com/google/uuid"
)

// archiveService exports a completed auction's event log as a JSON-lines
// object to long-term storage.
type archiveService struct {
	events   repositories.EventRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewArchiveService(events repositories.EventRepository, uploader storage.FileUploader, logger *slog.Logger) AuctionArchiver {
	return &archiveService{events: events, uploader: uploader, logger: logger}
}

func (s *archiveService) ArchiveAuction(ctx context.Context, auctionID int) (string, error) {
	events, err := s.events.ListByAuction(ctx, auctionID)
	if err != nil {
		return "", fmt.Errorf("load auction events: %w", err)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return "", fmt.Errorf("encode event %s: %w", event.ID, err)
		}
	}

	key := fmt.Sprintf("auction-archives/%d/%s.jsonl", auctionID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, "application/x-ndjson", &buf)
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}

	s.logger.Info("uploaded auction archive",
		slog.Int("auction_id", auctionID),
		slog.Int("events", len(events)),
		slog.String("key", result.Key))
	return result.Location, nil
}
