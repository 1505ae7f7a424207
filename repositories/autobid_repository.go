package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
	"github.com/shopspring/decimal"
)

var (
	ErrAutoBidNotFound = errors.New("auto-bid instruction not found")
)

type AutoBidRepository interface {
	Create(ctx context.Context, exec SQLExecutor, userID, auctionPlayerID int, maxAmount decimal.Decimal) (*models.AutoBid, error)
	// ListActiveForPlayer returns active instructions for a lot with the
	// owning team joined in, ordered max_amount DESC, created_at ASC. The
	// ordering is load-bearing: the cascade resolver takes the first entry
	// and ties on max amount go to the earliest created instruction.
	ListActiveForPlayer(ctx context.Context, exec SQLExecutor, auctionPlayerID int) ([]*models.AutoBid, error)
	ListByUser(ctx context.Context, userID, auctionID int) ([]*models.AutoBid, error)
	Deactivate(ctx context.Context, exec SQLExecutor, autoBidID int) error
	// DeactivateOwned only touches instructions owned by userID, so a team
	// cannot cancel a competitor's instruction.
	DeactivateOwned(ctx context.Context, exec SQLExecutor, autoBidID, userID int) error
	DeactivateAllForPlayer(ctx context.Context, exec SQLExecutor, auctionPlayerID int) error
}

type postgresAutoBidRepository struct {
	db *sql.DB
}

func NewPostgresAutoBidRepository(db *sql.DB) AutoBidRepository {
	return &postgresAutoBidRepository{db: db}
}

func (r *postgresAutoBidRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAutoBidRepository) Create(ctx context.Context, exec SQLExecutor, userID, auctionPlayerID int, maxAmount decimal.Decimal) (*models.AutoBid, error) {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO auto_bids (user_id, auction_player_id, max_amount, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, user_id, auction_player_id, max_amount, is_active, created_at`
	ab := &models.AutoBid{}
	err := executor.QueryRowContext(ctx, query, userID, auctionPlayerID, maxAmount).Scan(
		&ab.ID, &ab.UserID, &ab.AuctionPlayerID, &ab.MaxAmount, &ab.IsActive, &ab.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ab, nil
}

func (r *postgresAutoBidRepository) ListActiveForPlayer(ctx context.Context, exec SQLExecutor, auctionPlayerID int) ([]*models.AutoBid, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ab.id, ab.user_id, ab.auction_player_id, ab.max_amount, ab.is_active, ab.created_at,
		       t.id, t.name
		FROM auto_bids ab
		JOIN auction_players ap ON ab.auction_player_id = ap.id
		JOIN teams t ON t.tournament_id = (SELECT a.tournament_id FROM auctions a WHERE a.id = ap.auction_id)
			AND t.owner_id = ab.user_id
		WHERE ab.auction_player_id = $1 AND ab.is_active = true
		ORDER BY ab.max_amount DESC, ab.created_at ASC`
	rows, err := executor.QueryContext(ctx, query, auctionPlayerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructions []*models.AutoBid
	for rows.Next() {
		ab := &models.AutoBid{}
		if err := rows.Scan(
			&ab.ID, &ab.UserID, &ab.AuctionPlayerID, &ab.MaxAmount, &ab.IsActive, &ab.CreatedAt,
			&ab.TeamID, &ab.TeamName,
		); err != nil {
			return nil, err
		}
		instructions = append(instructions, ab)
	}
	return instructions, rows.Err()
}

func (r *postgresAutoBidRepository) ListByUser(ctx context.Context, userID, auctionID int) ([]*models.AutoBid, error) {
	query := `
		SELECT ab.id, ab.user_id, ab.auction_player_id, ab.max_amount, ab.is_active, ab.created_at, p.name
		FROM auto_bids ab
		JOIN auction_players ap ON ab.auction_player_id = ap.id
		JOIN players p ON ap.player_id = p.id
		WHERE ab.user_id = $1 AND ap.auction_id = $2
		ORDER BY ab.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructions []*models.AutoBid
	for rows.Next() {
		ab := &models.AutoBid{}
		if err := rows.Scan(
			&ab.ID, &ab.UserID, &ab.AuctionPlayerID, &ab.MaxAmount, &ab.IsActive, &ab.CreatedAt,
			&ab.PlayerName,
		); err != nil {
			return nil, err
		}
		instructions = append(instructions, ab)
	}
	return instructions, rows.Err()
}

func (r *postgresAutoBidRepository) Deactivate(ctx context.Context, exec SQLExecutor, autoBidID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE auto_bids SET is_active = false WHERE id = $1 AND is_active = true`, autoBidID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAutoBidNotFound)
}

func (r *postgresAutoBidRepository) DeactivateOwned(ctx context.Context, exec SQLExecutor, autoBidID, userID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE auto_bids SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active = true`,
		autoBidID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAutoBidNotFound)
}

func (r *postgresAutoBidRepository) DeactivateAllForPlayer(ctx context.Context, exec SQLExecutor, auctionPlayerID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE auto_bids SET is_active = false WHERE auction_player_id = $1`, auctionPlayerID)
	return err
}
