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
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentTitleConflict = errors.New("tournament title already exists")
)

type ListTournamentsFilter struct {
	Format *models.Format
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerID *int) error
	// ExistsWithParticipant reports whether participantID plays in any tournament whose
	// participants are of participantType.
	ExistsWithParticipant(ctx context.Context, participantType models.ParticipantType, participantID int) (bool, error)
}

const tournamentColumns = `id, title, prize, format, participant_type, winner_id, created_at`

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

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	// winner_id is never set on creation
	query := `
		INSERT INTO tournaments (title, prize, format, participant_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	if t.ParticipantType == "" {
		t.ParticipantType = models.ParticipantPlayer
	}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, t.Title, t.Prize, t.Format, t.ParticipantType).Scan(&t.ID, &t.CreatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerID *int) error {
	query := `UPDATE tournaments SET winner_id = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, winnerID, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ExistsWithParticipant(ctx context.Context, participantType models.ParticipantType, participantID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM matchups AS m
			JOIN tournaments AS t ON t.id = m.tournament_id
			WHERE t.participant_type = $1
			  AND (m.participant_one = $2 OR m.participant_two = $2)
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, participantType, participantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participation of %s %d: %w", participantType, participantID, err)
	}
	return exists, nil
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t      models.Tournament
		prize  sql.NullString
		winner sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Title, &prize, &t.Format, &t.ParticipantType, &winner, &t.CreatedAt); err != nil {
		return nil, err
	}
	if prize.Valid {
		t.Prize = &prize.String
	}
	t.WinnerID = nullIntPtr(winner)
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "tournaments_title_key":
			return ErrTournamentTitleConflict
		}
	}
	return err
}
