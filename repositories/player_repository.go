package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
)

type PlayerRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, position, base_price, reserve_price, created_at FROM players WHERE id = $1`
	p := &models.Player{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Position, &p.BasePrice, &p.ReservePrice, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}
