package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/match-score/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerInvalidTeam = errors.New("player team does not exist")
)

type ListPlayersFilter struct {
	TeamID *int
	Limit  int
	Offset int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error)
	// GetByIDs returns the players that exist among ids; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []int) ([]*models.Player, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Player, error)
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (first_name, second_name, team_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, player.FirstName, player.SecondName, player.TeamID).Scan(&player.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "players_team_id_fkey" {
			return ErrPlayerInvalidTeam
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error) {
	query := `
		SELECT id, first_name, second_name, team_id
		FROM players
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND team_id = $%d", argID)
		args = append(args, *filter.TeamID)
		argID++
	}

	query += " ORDER BY id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	return r.list(ctx, query, args...)
}

func (r *postgresPlayerRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	query := `
		SELECT id, first_name, second_name, team_id
		FROM players
		WHERE id = ANY($1)
		ORDER BY id`

	return r.list(ctx, query, pq.Array(ids))
}

// ListByTournament expects a tournament played by individual players.
func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	query := `
		SELECT DISTINCT p.id, p.first_name, p.second_name, p.team_id
		FROM players AS p
		JOIN matchups AS m ON p.id = m.participant_one OR p.id = m.participant_two
		WHERE m.tournament_id = $1
		ORDER BY p.id`

	return r.list(ctx, query, tournamentID)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var (
			p    models.Player
			team sql.NullInt64
		)
		if scanErr := rows.Scan(&p.ID, &p.FirstName, &p.SecondName, &team); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		p.TeamID = nullIntPtr(team)
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}
