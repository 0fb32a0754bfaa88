package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/match-score/brackets"
	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
	"github.com/Dosada05/match-score/storage"
)

type MatchupService interface {
	RecordScore(ctx context.Context, matchupID int, format models.Format, input ScoreInput) (*ScoreResult, error)
	GetMatchup(ctx context.Context, id int) (*models.Matchup, error)
	ListMatchups(ctx context.Context, tournamentID int) ([]*models.Matchup, error)
}

type ScoreInput struct {
	ScoreOne *int `json:"score_one" validate:"required,gte=0"`
	ScoreTwo *int `json:"score_two" validate:"required,gte=0"`
}

// ScoreResult describes everything a score update touched.
type ScoreResult struct {
	Matchup   *models.Matchup `json:"matchup"`
	Successor *models.Matchup `json:"successor,omitempty"`
	WinnerID  *int            `json:"tournament_winner_id,omitempty"`
}

type matchupService struct {
	tx          repositories.Transactor
	tournaments repositories.TournamentRepository
	matchups    repositories.MatchupRepository
	snapshots   *snapshotPublisher
	logger      *slog.Logger
}

func NewMatchupService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	matchupRepo repositories.MatchupRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.Uploader,
	logger *slog.Logger,
) MatchupService {
	views := &viewLoader{tournaments: tournamentRepo, matchups: matchupRepo, players: playerRepo, teams: teamRepo}
	return &matchupService{
		tx:          tx,
		tournaments: tournamentRepo,
		matchups:    matchupRepo,
		snapshots:   &snapshotPublisher{views: views, uploader: uploader, logger: logger},
		logger:      logger,
	}
}

func (s *matchupService) RecordScore(ctx context.Context, matchupID int, format models.Format, input ScoreInput) (*ScoreResult, error) {
	if input.ScoreOne == nil || input.ScoreTwo == nil {
		return nil, fmt.Errorf("%w: score_one and score_two are required", ErrInvalidScore)
	}
	scoreOne, scoreTwo := *input.ScoreOne, *input.ScoreTwo
	if err := brackets.ValidateScore(scoreOne, scoreTwo); err != nil {
		return nil, err
	}

	var result *ScoreResult
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		matchup, err := s.matchups.GetByID(ctx, exec, matchupID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchupNotFound) {
				return ErrMatchupNotFound
			}
			return fmt.Errorf("failed to get matchup %d: %w", matchupID, err)
		}

		tournament, err := s.tournaments.GetByID(ctx, matchup.TournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament %d: %w", matchup.TournamentID, err)
		}
		if tournament.Format != format {
			return fmt.Errorf("%w: matchup %d is in a %s tournament", ErrFormatMismatch, matchupID, tournament.Format)
		}
		if matchup.ParticipantOne == nil || matchup.ParticipantTwo == nil {
			return fmt.Errorf("%w: matchup %d", ErrMatchupNotReady, matchupID)
		}

		matchup.ScoreOne, matchup.ScoreTwo = &scoreOne, &scoreTwo
		result = &ScoreResult{Matchup: matchup}

		if format == models.FormatKnockout {
			if err := s.planPromotion(ctx, exec, tournament, matchup, result); err != nil {
				return err
			}
		}

		// Все проверки пройдены, дальше только запись.
		if err := s.matchups.UpdateScore(ctx, exec, matchup.ID, scoreOne, scoreTwo); err != nil {
			return fmt.Errorf("failed to update score of matchup %d: %w", matchup.ID, err)
		}
		if result.Successor != nil {
			if err := s.matchups.UpdateParticipants(ctx, exec, result.Successor.ID,
				result.Successor.ParticipantOne, result.Successor.ParticipantTwo); err != nil {
				return fmt.Errorf("failed to promote winner into matchup %d: %w", result.Successor.ID, err)
			}
		}
		if result.WinnerID != nil {
			if err := s.tournaments.UpdateWinner(ctx, exec, tournament.ID, result.WinnerID); err != nil {
				return fmt.Errorf("failed to set winner of tournament %d: %w", tournament.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "score recorded",
		slog.Int("tournament_id", result.Matchup.TournamentID),
		slog.Int("matchup_id", result.Matchup.ID),
		slog.Int("phase", result.Matchup.Phase),
		slog.Int("score_one", scoreOne),
		slog.Int("score_two", scoreTwo))
	s.snapshots.publish(ctx, result.Matchup.TournamentID)
	return result, nil
}

// planPromotion decides where the winner goes without writing anything. The successor is
// only set on result when its participants actually change; on the final the winner
// becomes the tournament winner.
func (s *matchupService) planPromotion(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, matchup *models.Matchup, result *ScoreResult) error {
	winnerID, err := brackets.Winner(matchup)
	if err != nil {
		return err
	}

	sequence, slot := brackets.SuccessorSlot(matchup.Sequence)
	// Строка преемника блокируется до конца транзакции: соседний матч, записывающий
	// своего победителя в другой слот, подождёт и прочитает уже обновлённую строку.
	successor, err := s.matchups.GetByPositionForUpdate(ctx, exec, matchup.TournamentID, matchup.Phase+1, sequence)
	if errors.Is(err, repositories.ErrMatchupNotFound) {
		// Следующей фазы нет, это финал.
		if tournament.WinnerID == nil || *tournament.WinnerID != winnerID {
			result.WinnerID = &winnerID
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to lock successor of matchup %d (phase %d, sequence %d): %w",
			matchup.ID, matchup.Phase+1, sequence, err)
	}

	if current := brackets.Occupant(successor, slot); current != nil && *current != winnerID && successor.HasResult() {
		return fmt.Errorf("%w: matchup %d", ErrResultLocked, successor.ID)
	}
	if brackets.Place(successor, winnerID, slot) {
		result.Successor = successor
	}
	return nil
}

func (s *matchupService) GetMatchup(ctx context.Context, id int) (*models.Matchup, error) {
	m, err := s.matchups.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchupNotFound) {
			return nil, ErrMatchupNotFound
		}
		return nil, fmt.Errorf("failed to get matchup %d: %w", id, err)
	}
	return m, nil
}

func (s *matchupService) ListMatchups(ctx context.Context, tournamentID int) ([]*models.Matchup, error) {
	if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	list, err := s.matchups.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchups of tournament %d: %w", tournamentID, err)
	}
	return list, nil
}
