package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

const (
	defaultPlayersLimit = 50
	maxPlayersLimit     = 500
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context, input ListPlayersInput) ([]*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	SecondName string `json:"second_name" validate:"max=100"`
	TeamID     *int   `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type ListPlayersInput struct {
	TeamID *int
	Limit  int
	Offset int
}

type playerService struct {
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
) PlayerService {
	return &playerService{playerRepo: playerRepo, teamRepo: teamRepo, tournamentRepo: tournamentRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	player := &models.Player{
		FirstName:  strings.TrimSpace(input.FirstName),
		SecondName: strings.TrimSpace(input.SecondName),
		TeamID:     input.TeamID,
	}
	if player.FirstName == "" {
		return nil, fmt.Errorf("%w: first_name is required", ErrValidationFailed)
	}
	if player.TeamID != nil {
		teams, err := s.teamRepo.GetByIDs(ctx, []int{*player.TeamID})
		if err != nil {
			return nil, fmt.Errorf("failed to check team %d: %w", *player.TeamID, err)
		}
		if len(teams) == 0 {
			return nil, fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, *player.TeamID)
		}
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerInvalidTeam) {
			return nil, fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, *player.TeamID)
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	found, err := s.playerRepo.GetByIDs(ctx, []int{id})
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	return found[0], nil
}

func (s *playerService) ListPlayers(ctx context.Context, input ListPlayersInput) ([]*models.Player, error) {
	limit, offset := clampPage(input.Limit, input.Offset, defaultPlayersLimit, maxPlayersLimit)
	return s.playerRepo.List(ctx, repositories.ListPlayersFilter{
		TeamID: input.TeamID,
		Limit:  limit,
		Offset: offset,
	})
}

// DeletePlayer удаляет игрока, если он не играет ни в одном турнире игроков.
func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	inUse, err := s.tournamentRepo.ExistsWithParticipant(ctx, models.ParticipantPlayer, id)
	if err != nil {
		return fmt.Errorf("failed to check tournaments of player %d: %w", id, err)
	}
	if inUse {
		return fmt.Errorf("%w: %d", ErrPlayerInUse, id)
	}
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}

func clampPage(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
