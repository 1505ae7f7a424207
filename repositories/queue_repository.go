package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
	"github.com/shopspring/decimal"
)

var (
	ErrQueueEntryNotFound = errors.New("auction queue entry not found")
)

// QueueRepository manages auction_players, the fixed per-auction lot queue.
type QueueRepository interface {
	InsertQueue(ctx context.Context, exec SQLExecutor, auctionID int, orderedPlayerIDs []int) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.AuctionPlayer, error)
	ListByAuction(ctx context.Context, auctionID int) ([]*models.AuctionPlayer, error)
	GetByAuctionAndPlayer(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.AuctionPlayer, error)
	NextPending(ctx context.Context, exec SQLExecutor, auctionID int) (*models.AuctionPlayer, error)
	MarkInProgress(ctx context.Context, exec SQLExecutor, auctionID, playerID int) error
	MarkSold(ctx context.Context, exec SQLExecutor, auctionID, playerID, teamID int, finalPrice decimal.Decimal) error
	MarkUnsold(ctx context.Context, exec SQLExecutor, auctionID, playerID int) error
}

type postgresQueueRepository struct {
	db *sql.DB
}

func NewPostgresQueueRepository(db *sql.DB) QueueRepository {
	return &postgresQueueRepository{db: db}
}

func (r *postgresQueueRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const queueColumns = `id, auction_id, player_id, order_index, status, sold_to_team_id, final_price, ended_at`

func scanQueueEntry(row *sql.Row) (*models.AuctionPlayer, error) {
	e := &models.AuctionPlayer{}
	err := row.Scan(
		&e.ID, &e.AuctionID, &e.PlayerID, &e.OrderIndex,
		&e.Status, &e.SoldToTeamID, &e.FinalPrice, &e.EndedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueueEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresQueueRepository) InsertQueue(ctx context.Context, exec SQLExecutor, auctionID int, orderedPlayerIDs []int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO auction_players (auction_id, player_id, order_index, status)
		VALUES ($1, $2, $3, 'pending')`
	for idx, playerID := range orderedPlayerIDs {
		if _, err := executor.ExecContext(ctx, query, auctionID, playerID, idx); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresQueueRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.AuctionPlayer, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + queueColumns + ` FROM auction_players WHERE id = $1`
	return scanQueueEntry(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresQueueRepository) ListByAuction(ctx context.Context, auctionID int) ([]*models.AuctionPlayer, error) {
	query := `SELECT ` + queueColumns + ` FROM auction_players WHERE auction_id = $1 ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuctionPlayer
	for rows.Next() {
		e := &models.AuctionPlayer{}
		if err := rows.Scan(
			&e.ID, &e.AuctionID, &e.PlayerID, &e.OrderIndex,
			&e.Status, &e.SoldToTeamID, &e.FinalPrice, &e.EndedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresQueueRepository) GetByAuctionAndPlayer(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.AuctionPlayer, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + queueColumns + ` FROM auction_players WHERE auction_id = $1 AND player_id = $2`
	return scanQueueEntry(executor.QueryRowContext(ctx, query, auctionID, playerID))
}

func (r *postgresQueueRepository) NextPending(ctx context.Context, exec SQLExecutor, auctionID int) (*models.AuctionPlayer, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + queueColumns + `
		FROM auction_players
		WHERE auction_id = $1 AND status = 'pending'
		ORDER BY order_index
		LIMIT 1`
	return scanQueueEntry(executor.QueryRowContext(ctx, query, auctionID))
}

func (r *postgresQueueRepository) MarkInProgress(ctx context.Context, exec SQLExecutor, auctionID, playerID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE auction_players SET status = 'in_progress'
		WHERE auction_id = $1 AND player_id = $2 AND status = 'pending'`,
		auctionID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrQueueEntryNotFound)
}

func (r *postgresQueueRepository) MarkSold(ctx context.Context, exec SQLExecutor, auctionID, playerID, teamID int, finalPrice decimal.Decimal) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE auction_players
		SET status = 'sold', sold_to_team_id = $1, final_price = $2, ended_at = CURRENT_TIMESTAMP
		WHERE auction_id = $3 AND player_id = $4 AND status = 'in_progress'`,
		teamID, finalPrice, auctionID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrQueueEntryNotFound)
}

func (r *postgresQueueRepository) MarkUnsold(ctx context.Context, exec SQLExecutor, auctionID, playerID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE auction_players
		SET status = 'unsold', ended_at = CURRENT_TIMESTAMP
		WHERE auction_id = $1 AND player_id = $2 AND status = 'in_progress'`,
		auctionID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrQueueEntryNotFound)
}
