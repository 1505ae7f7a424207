package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
	"github.com/shopspring/decimal"
)

var (
	ErrBidNotFound = errors.New("bid not found")
)

type BidRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bid *models.Bid) error
	// GetHighest returns the current highest bid for a lot; ties on amount go
	// to the earliest commit. Returns ErrBidNotFound when no bids exist.
	GetHighest(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.BidWithTeam, error)
	GetLatest(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.Bid, error)
	ListForPlayer(ctx context.Context, auctionID, playerID int) ([]*models.BidWithTeam, error)
	Delete(ctx context.Context, exec SQLExecutor, bidID int) error
	// TeamTotalSpent sums final prices of lots the team has won in this
	// auction. Availability is always derived from this, not from the cached
	// remaining_budget column.
	TeamTotalSpent(ctx context.Context, exec SQLExecutor, teamID, auctionID int) (decimal.Decimal, error)
}

type postgresBidRepository struct {
	db *sql.DB
}

func NewPostgresBidRepository(db *sql.DB) BidRepository {
	return &postgresBidRepository{db: db}
}

func (r *postgresBidRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBidRepository) Create(ctx context.Context, exec SQLExecutor, bid *models.Bid) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bids (auction_id, player_id, team_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		bid.AuctionID, bid.PlayerID, bid.TeamID, bid.Amount,
	).Scan(&bid.ID, &bid.CreatedAt)
}

func (r *postgresBidRepository) GetHighest(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.BidWithTeam, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT b.id, b.auction_id, b.player_id, b.team_id, b.amount, b.created_at, t.name
		FROM bids b
		JOIN teams t ON b.team_id = t.id
		WHERE b.auction_id = $1 AND b.player_id = $2
		ORDER BY b.amount DESC, b.created_at ASC
		LIMIT 1`
	b := &models.BidWithTeam{}
	err := executor.QueryRowContext(ctx, query, auctionID, playerID).Scan(
		&b.ID, &b.AuctionID, &b.PlayerID, &b.TeamID, &b.Amount, &b.CreatedAt, &b.TeamName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBidRepository) GetLatest(ctx context.Context, exec SQLExecutor, auctionID, playerID int) (*models.Bid, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, auction_id, player_id, team_id, amount, created_at
		FROM bids
		WHERE auction_id = $1 AND player_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	b := &models.Bid{}
	err := executor.QueryRowContext(ctx, query, auctionID, playerID).Scan(
		&b.ID, &b.AuctionID, &b.PlayerID, &b.TeamID, &b.Amount, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBidRepository) ListForPlayer(ctx context.Context, auctionID, playerID int) ([]*models.BidWithTeam, error) {
	query := `
		SELECT b.id, b.auction_id, b.player_id, b.team_id, b.amount, b.created_at, t.name
		FROM bids b
		JOIN teams t ON b.team_id = t.id
		WHERE b.auction_id = $1 AND b.player_id = $2
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, auctionID, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*models.BidWithTeam
	for rows.Next() {
		b := &models.BidWithTeam{}
		if err := rows.Scan(
			&b.ID, &b.AuctionID, &b.PlayerID, &b.TeamID, &b.Amount, &b.CreatedAt, &b.TeamName,
		); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func (r *postgresBidRepository) Delete(ctx context.Context, exec SQLExecutor, bidID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM bids WHERE id = $1`, bidID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBidNotFound)
}

func (r *postgresBidRepository) TeamTotalSpent(ctx context.Context, exec SQLExecutor, teamID, auctionID int) (decimal.Decimal, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COALESCE(SUM(final_price), 0)
		FROM auction_players
		WHERE sold_to_team_id = $1 AND auction_id = $2 AND status = 'sold'`
	var total decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, teamID, auctionID).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
