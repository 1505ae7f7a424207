package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
)

type TournamentRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, squad_rules, created_at FROM tournaments WHERE id = $1`
	t := &models.Tournament{}
	err := executor.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.SquadRules, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}
