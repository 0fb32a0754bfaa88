package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

const (
	defaultTeamsLimit = 50
	maxTeamsLimit     = 500
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*TeamDetails, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type CreateTeamInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// TeamDetails - команда вместе с составом.
type TeamDetails struct {
	*models.Team
	Players []*models.Player `json:"players"`
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{teamRepo: teamRepo, playerRepo: playerRepo, tournamentRepo: tournamentRepo, logger: logger}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	team := &models.Team{Name: strings.TrimSpace(input.Name)}
	if team.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.String("name", team.Name))
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*TeamDetails, error) {
	found, err := s.teamRepo.GetByIDs(ctx, []int{id})
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, id)
	}
	players, err := s.playerRepo.List(ctx, repositories.ListPlayersFilter{TeamID: &id, Limit: maxPlayersLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list players of team %d: %w", id, err)
	}
	return &TeamDetails{Team: found[0], Players: players}, nil
}

func (s *teamService) ListTeams(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	limit, offset = clampPage(limit, offset, defaultTeamsLimit, maxTeamsLimit)
	list, err := s.teamRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return list, nil
}

// DeleteTeam удаляет команду, не сыгравшую ни одного турнира. Игроки остаются без команды.
func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	inUse, err := s.tournamentRepo.ExistsWithParticipant(ctx, models.ParticipantTeam, id)
	if err != nil {
		return fmt.Errorf("failed to check tournaments of team %d: %w", id, err)
	}
	if inUse {
		return fmt.Errorf("%w: %d", ErrTeamInUse, id)
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return fmt.Errorf("%w: %d", ErrTeamNotFound, id)
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "team deleted", slog.Int("team_id", id))
	return nil
}
