package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Dosada05/auction-system/models"
)

// EventRepository is the append-only auction event log used for replay.
// The engine never reads it on its hot path.
type EventRepository interface {
	Append(ctx context.Context, exec SQLExecutor, event *models.AuctionEvent) error
	ListByAuction(ctx context.Context, auctionID int) ([]*models.AuctionEvent, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) Append(ctx context.Context, exec SQLExecutor, event *models.AuctionEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO auction_events (id, auction_id, event_type, event_data)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	data := event.Data
	if data == nil {
		data = json.RawMessage(`{}`)
	}
	return executor.QueryRowContext(ctx, query,
		event.ID, event.AuctionID, event.Type, []byte(data),
	).Scan(&event.CreatedAt)
}

func (r *postgresEventRepository) ListByAuction(ctx context.Context, auctionID int) ([]*models.AuctionEvent, error) {
	query := `
		SELECT id, auction_id, event_type, event_data, created_at
		FROM auction_events
		WHERE auction_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.AuctionEvent
	for rows.Next() {
		e := &models.AuctionEvent{}
		var data []byte
		if err := rows.Scan(&e.ID, &e.AuctionID, &e.Type, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		events = append(events, e)
	}
	return events, rows.Err()
}
