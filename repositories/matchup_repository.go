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
	ErrMatchupNotFound          = errors.New("matchup not found")
	ErrMatchupTournamentInvalid = errors.New("matchup tournament conflict or invalid")
	ErrMatchupPositionConflict  = errors.New("matchup position in phase is already taken")
)

// MatchupRepository persists matchups. Lists within a phase are always ordered by
// sequence_in_phase, never by insertion order.
type MatchupRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matchups []*models.Matchup) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Matchup, error)
	// GetByPositionForUpdate reads the matchup at (phase, sequence) and locks its row
	// until exec's transaction ends. Concurrent promotions into the same successor
	// therefore apply one after another, each seeing the other's write.
	GetByPositionForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, phase, sequence int) (*models.Matchup, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Matchup, error)
	ListByTournamentAndPhase(ctx context.Context, exec SQLExecutor, tournamentID, phase int) ([]*models.Matchup, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, scoreOne, scoreTwo int) error
	UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, participantOne, participantTwo *int) error
}

type postgresMatchupRepository struct {
	db *sql.DB
}

func NewPostgresMatchupRepository(db *sql.DB) MatchupRepository {
	return &postgresMatchupRepository{db: db}
}

func (r *postgresMatchupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchupColumns = `id, tournament_id, played_at, phase, sequence_in_phase,
		participant_one, participant_two, score_one, score_two`

func (r *postgresMatchupRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matchups []*models.Matchup) error {
	if len(matchups) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matchups
			(tournament_id, played_at, phase, sequence_in_phase, participant_one, participant_two, score_one, score_two)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	for _, m := range matchups {
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID,
			m.PlayedAt,
			m.Phase,
			m.Sequence,
			m.ParticipantOne,
			m.ParticipantTwo,
			m.ScoreOne,
			m.ScoreTwo,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to insert matchup (phase %d, sequence %d): %w", m.Phase, m.Sequence, r.handleMatchupError(err))
		}
	}
	return nil
}

func (r *postgresMatchupRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + ` FROM matchups WHERE id = $1`

	m, err := scanMatchup(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchupNotFound
		}
		return nil, fmt.Errorf("failed to scan matchup by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchupRepository) GetByPositionForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, phase, sequence int) (*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + `
		FROM matchups
		WHERE tournament_id = $1 AND phase = $2 AND sequence_in_phase = $3
		FOR UPDATE`

	m, err := scanMatchup(r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, phase, sequence))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchupNotFound
		}
		return nil, fmt.Errorf("failed to lock matchup (tournament %d, phase %d, sequence %d): %w", tournamentID, phase, sequence, err)
	}
	return m, nil
}

func (r *postgresMatchupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + `
		FROM matchups
		WHERE tournament_id = $1
		ORDER BY phase ASC, sequence_in_phase ASC`
	return r.list(ctx, r.db, query, tournamentID)
}

func (r *postgresMatchupRepository) ListByTournamentAndPhase(ctx context.Context, exec SQLExecutor, tournamentID, phase int) ([]*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + `
		FROM matchups
		WHERE tournament_id = $1 AND phase = $2
		ORDER BY sequence_in_phase ASC`
	return r.list(ctx, r.getExecutor(exec), query, tournamentID, phase)
}

func (r *postgresMatchupRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Matchup, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()

	matchups := make([]*models.Matchup, 0)
	for rows.Next() {
		m, scanErr := scanMatchup(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan matchup row: %w", scanErr)
		}
		matchups = append(matchups, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during matchup rows iteration: %w", err)
	}
	return matchups, nil
}

func (r *postgresMatchupRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, scoreOne, scoreTwo int) error {
	query := `UPDATE matchups SET score_one = $1, score_two = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, scoreOne, scoreTwo, id)
	if err != nil {
		return fmt.Errorf("UpdateScore: failed to execute query for matchup %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchupNotFound)
}

func (r *postgresMatchupRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, participantOne, participantTwo *int) error {
	query := `UPDATE matchups SET participant_one = $1, participant_two = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, participantOne, participantTwo, id)
	if err != nil {
		return fmt.Errorf("UpdateParticipants: failed to execute query for matchup %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchupNotFound)
}

func scanMatchup(row rowScanner) (*models.Matchup, error) {
	var (
		m              models.Matchup
		participantOne sql.NullInt64
		participantTwo sql.NullInt64
		scoreOne       sql.NullInt64
		scoreTwo       sql.NullInt64
	)
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.PlayedAt,
		&m.Phase,
		&m.Sequence,
		&participantOne,
		&participantTwo,
		&scoreOne,
		&scoreTwo,
	)
	if err != nil {
		return nil, err
	}
	m.ParticipantOne = nullIntPtr(participantOne)
	m.ParticipantTwo = nullIntPtr(participantTwo)
	m.ScoreOne = nullIntPtr(scoreOne)
	m.ScoreTwo = nullIntPtr(scoreTwo)
	return &m, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func (r *postgresMatchupRepository) handleMatchupError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matchups_tournament_id_fkey":
			return ErrMatchupTournamentInvalid
		case "matchups_position_key":
			return ErrMatchupPositionConflict
		}
	}
	return err
}
