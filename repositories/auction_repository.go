package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
)

var (
	ErrAuctionNotFound = errors.New("auction not found")
)

type AuctionRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Auction, error)
	ListByStatus(ctx context.Context, status models.AuctionStatus) ([]*models.Auction, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.AuctionStatus) error
	SetCurrentPlayer(ctx context.Context, exec SQLExecutor, id int, playerID *int) error
}

type postgresAuctionRepository struct {
	db *sql.DB
}

func NewPostgresAuctionRepository(db *sql.DB) AuctionRepository {
	return &postgresAuctionRepository{db: db}
}

func (r *postgresAuctionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const auctionColumns = `id, tournament_id, name, status, timer_seconds, bid_increment, current_player_id, created_at`

func scanAuction(row *sql.Row) (*models.Auction, error) {
	a := &models.Auction{}
	err := row.Scan(
		&a.ID, &a.TournamentID, &a.Name, &a.Status,
		&a.TimerSeconds, &a.BidIncrement, &a.CurrentPlayerID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresAuctionRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Auction, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`
	return scanAuction(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresAuctionRepository) ListByStatus(ctx context.Context, status models.AuctionStatus) ([]*models.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*models.Auction
	for rows.Next() {
		a := &models.Auction{}
		if err := rows.Scan(
			&a.ID, &a.TournamentID, &a.Name, &a.Status,
			&a.TimerSeconds, &a.BidIncrement, &a.CurrentPlayerID, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, rows.Err()
}

func (r *postgresAuctionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.AuctionStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE auctions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAuctionNotFound)
}

func (r *postgresAuctionRepository) SetCurrentPlayer(ctx context.Context, exec SQLExecutor, id int, playerID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE auctions SET current_player_id = $1 WHERE id = $2`, playerID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAuctionNotFound)
}
