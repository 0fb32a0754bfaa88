package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Dosada05/match-score/brackets"
	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
	"github.com/Dosada05/match-score/storage"
)

const (
	dateLayout              = "2006-01-02"
	defaultTournamentsLimit = 20
	maxTournamentsLimit     = 100
)

type TournamentService interface {
	CreateKnockout(ctx context.Context, input CreateTournamentInput) (*TournamentView, error)
	CreateLeague(ctx context.Context, input CreateTournamentInput) (*TournamentView, error)
	GetTournament(ctx context.Context, id int) (*TournamentView, error)
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]*models.Tournament, error)
	SetWinner(ctx context.Context, tournamentID, winnerID int) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Prize        *string `json:"prize,omitempty" validate:"omitempty,max=255"`
	Participants []int   `json:"participants" validate:"required,dive,gt=0"`
	StartingDate string  `json:"starting_date" validate:"required"`
	// ParticipantType по умолчанию player.
	ParticipantType models.ParticipantType `json:"participant_type,omitempty" validate:"omitempty,oneof=player team"`
}

type ListTournamentsInput struct {
	Format *models.Format
	Limit  int
	Offset int
}

type TournamentOption func(*tournamentService)

// WithClock подменяет текущее время (нужно для проверки даты старта в тестах).
func WithClock(now func() time.Time) TournamentOption {
	return func(s *tournamentService) { s.now = now }
}

// WithRandom задает источник случайности для жеребьевки плей-офф.
func WithRandom(rng *rand.Rand) TournamentOption {
	return func(s *tournamentService) { s.rng = rng }
}

type tournamentService struct {
	tx          repositories.Transactor
	tournaments repositories.TournamentRepository
	matchups    repositories.MatchupRepository
	players     repositories.PlayerRepository
	teams       repositories.TeamRepository
	views       *viewLoader
	snapshots   *snapshotPublisher
	generators  map[models.Format]brackets.Generator
	logger      *slog.Logger
	now         func() time.Time
	rng         *rand.Rand
}

func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	matchupRepo repositories.MatchupRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.Uploader,
	logger *slog.Logger,
	opts ...TournamentOption,
) TournamentService {
	views := &viewLoader{tournaments: tournamentRepo, matchups: matchupRepo, players: playerRepo, teams: teamRepo}
	s := &tournamentService{
		tx:          tx,
		tournaments: tournamentRepo,
		matchups:    matchupRepo,
		players:     playerRepo,
		teams:       teamRepo,
		views:       views,
		snapshots:   &snapshotPublisher{views: views, uploader: uploader, logger: logger},
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Генераторы создаются один раз: knockout держит общий rng под своим мьютексом.
	s.generators = map[models.Format]brackets.Generator{
		models.FormatKnockout: brackets.NewKnockoutBuilder(s.rng),
		models.FormatLeague:   brackets.NewLeagueBuilder(),
	}
	return s
}

func (s *tournamentService) CreateKnockout(ctx context.Context, input CreateTournamentInput) (*TournamentView, error) {
	return s.create(ctx, models.FormatKnockout, input)
}

func (s *tournamentService) CreateLeague(ctx context.Context, input CreateTournamentInput) (*TournamentView, error) {
	return s.create(ctx, models.FormatLeague, input)
}

func (s *tournamentService) create(ctx context.Context, format models.Format, input CreateTournamentInput) (*TournamentView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	participantType := input.ParticipantType
	if participantType == "" {
		participantType = models.ParticipantPlayer
	}
	if !participantType.Valid() {
		return nil, fmt.Errorf("%w: unknown participant_type '%s'", ErrValidationFailed, participantType)
	}
	startDate, err := s.parseStartDate(input.StartingDate)
	if err != nil {
		return nil, err
	}

	generator := s.generators[format]
	if err := generator.Validate(len(input.Participants)); err != nil {
		return nil, err
	}
	if dup, ok := firstDuplicate(input.Participants); ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateParticipant, dup)
	}

	participants, err := s.resolveParticipants(ctx, participantType, input.Participants)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Title:           title,
		Prize:           input.Prize,
		Format:          format,
		ParticipantType: participantType,
	}
	var matchups []*models.Matchup

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournaments.Create(ctx, exec, tournament); err != nil {
			if errors.Is(err, repositories.ErrTournamentTitleConflict) {
				return ErrTournamentTitleConflict
			}
			return fmt.Errorf("failed to create tournament: %w", err)
		}

		built, err := generator.Build(tournament.ID, input.Participants, startDate)
		if err != nil {
			return fmt.Errorf("failed to build %s schedule: %w", format, err)
		}
		if err := s.matchups.CreateBatch(ctx, exec, built); err != nil {
			return fmt.Errorf("failed to persist matchups: %w", err)
		}
		matchups = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(format)),
		slog.String("participant_type", string(participantType)),
		slog.Int("participants", len(input.Participants)),
		slog.Int("matchups", len(matchups)))

	view := newTournamentView(tournament, participants, matchups)
	s.snapshots.publishView(ctx, view)
	return view, nil
}

func (s *tournamentService) parseStartDate(value string) (time.Time, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: starting_date must be YYYY-MM-DD", ErrValidationFailed)
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrStartDateInPast, start.Format(dateLayout))
	}
	return start, nil
}

// resolveParticipants проверяет, что каждый id существует среди игроков или команд.
func (s *tournamentService) resolveParticipants(ctx context.Context, participantType models.ParticipantType, ids []int) ([]*ParticipantView, error) {
	var participants []*ParticipantView
	switch participantType {
	case models.ParticipantTeam:
		teams, err := s.teams.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participants: %w", err)
		}
		participants = teamParticipants(teams)
	default:
		players, err := s.players.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participants: %w", err)
		}
		participants = playerParticipants(players)
	}
	if len(participants) == len(ids) {
		return participants, nil
	}

	found := make(map[int]bool, len(participants))
	for _, p := range participants {
		found[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	return nil, fmt.Errorf("%w: %s %s", ErrParticipantNotFound, participantType, strings.Join(missing, ", "))
}

func firstDuplicate(ids []int) (int, bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*TournamentView, error) {
	return s.views.load(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]*models.Tournament, error) {
	if input.Format != nil && !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format '%s'", ErrValidationFailed, *input.Format)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultTournamentsLimit
	}
	if limit > maxTournamentsLimit {
		limit = maxTournamentsLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	list, err := s.tournaments.List(ctx, repositories.ListTournamentsFilter{
		Format: input.Format,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return list, nil
}

// SetWinner явно назначает победителя. Победитель должен играть хотя бы в одном матче турнира.
func (s *tournamentService) SetWinner(ctx context.Context, tournamentID, winnerID int) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	matchups, err := s.matchups.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchups of tournament %d: %w", tournamentID, err)
	}
	plays := false
	for _, m := range matchups {
		if m.HasParticipant(winnerID) {
			plays = true
			break
		}
	}
	if !plays {
		return nil, fmt.Errorf("%w: %d does not play in tournament %d", ErrParticipantNotFound, winnerID, tournamentID)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournaments.UpdateWinner(ctx, exec, tournamentID, &winnerID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to set winner of tournament %d: %w", tournamentID, err)
	}

	tournament.WinnerID = &winnerID
	s.logger.InfoContext(ctx, "tournament winner set",
		slog.Int("tournament_id", tournamentID), slog.Int("winner_id", winnerID))
	s.snapshots.publish(ctx, tournamentID)
	return tournament, nil
}
