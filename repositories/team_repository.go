package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/auction-system/models"
	"github.com/shopspring/decimal"
)

var (
	ErrTeamNotFound = errors.New("team not found")
)

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetByOwner(ctx context.Context, exec SQLExecutor, tournamentID, ownerID int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	// DeductBudget lowers the cached remaining_budget after a sale commits.
	DeductBudget(ctx context.Context, exec SQLExecutor, teamID int, amount decimal.Decimal) error
	// SquadComposition counts sold players per position for a team in one auction.
	SquadComposition(ctx context.Context, exec SQLExecutor, teamID, auctionID int) (map[string]int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, tournament_id, name, owner_id, budget, remaining_budget, max_players, created_at`

func scanTeam(row *sql.Row) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.OwnerID,
		&t.Budget, &t.RemainingBudget, &t.MaxPlayers, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByOwner(ctx context.Context, exec SQLExecutor, tournamentID, ownerID int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 AND owner_id = $2`
	return scanTeam(executor.QueryRowContext(ctx, query, tournamentID, ownerID))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		t := &models.Team{}
		if err := rows.Scan(
			&t.ID, &t.TournamentID, &t.Name, &t.OwnerID,
			&t.Budget, &t.RemainingBudget, &t.MaxPlayers, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) DeductBudget(ctx context.Context, exec SQLExecutor, teamID int, amount decimal.Decimal) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE teams SET remaining_budget = remaining_budget - $1 WHERE id = $2`,
		amount, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) SquadComposition(ctx context.Context, exec SQLExecutor, teamID, auctionID int) (map[string]int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT p.position, COUNT(*)
		FROM auction_players ap
		JOIN players p ON ap.player_id = p.id
		WHERE ap.sold_to_team_id = $1 AND ap.auction_id = $2 AND ap.status = 'sold'
			AND p.position IS NOT NULL
		GROUP BY p.position`
	rows, err := executor.QueryContext(ctx, query, teamID, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	composition := make(map[string]int)
	for rows.Next() {
		var position string
		var count int
		if err := rows.Scan(&position, &count); err != nil {
			return nil, err
		}
		composition[position] = count
	}
	return composition, rows.Err()
}
