package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
	"golang.org/x/sync/errgroup"
)

// ParticipantView is a player or a team, depending on the tournament's participant type.
type ParticipantView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MatchupView is a matchup with participant names resolved for presentation.
type MatchupView struct {
	*models.Matchup
	ParticipantOneName string `json:"participant_one_name,omitempty"`
	ParticipantTwoName string `json:"participant_two_name,omitempty"`
}

type TournamentView struct {
	Tournament   *models.Tournament `json:"tournament"`
	Participants []*ParticipantView `json:"participants"`
	Matchups     []*MatchupView     `json:"matchups"`
}

func newTournamentView(t *models.Tournament, participants []*ParticipantView, matchups []*models.Matchup) *TournamentView {
	if participants == nil {
		participants = []*ParticipantView{}
	}
	byID := make(map[int]*ParticipantView, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	views := make([]*MatchupView, 0, len(matchups))
	for _, m := range matchups {
		views = append(views, &MatchupView{
			Matchup:            m,
			ParticipantOneName: displayName(byID, m.ParticipantOne),
			ParticipantTwoName: displayName(byID, m.ParticipantTwo),
		})
	}
	return &TournamentView{Tournament: t, Participants: participants, Matchups: views}
}

func displayName(participants map[int]*ParticipantView, id *int) string {
	if id == nil {
		return ""
	}
	if p, ok := participants[*id]; ok && p.Name != "" {
		return p.Name
	}
	return "N/A"
}

func playerParticipants(players []*models.Player) []*ParticipantView {
	out := make([]*ParticipantView, 0, len(players))
	for _, p := range players {
		out = append(out, &ParticipantView{ID: p.ID, Name: p.DisplayName()})
	}
	return out
}

func teamParticipants(teams []*models.Team) []*ParticipantView {
	out := make([]*ParticipantView, 0, len(teams))
	for _, t := range teams {
		out = append(out, &ParticipantView{ID: t.ID, Name: t.Name})
	}
	return out
}

// viewLoader собирает TournamentView: сначала турнир (от него зависит тип участников),
// затем участников и матчи параллельно.
type viewLoader struct {
	tournaments repositories.TournamentRepository
	matchups    repositories.MatchupRepository
	players     repositories.PlayerRepository
	teams       repositories.TeamRepository
}

func (l *viewLoader) load(ctx context.Context, tournamentID int) (*TournamentView, error) {
	tournament, err := l.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	var (
		participants []*ParticipantView
		matchups     []*models.Matchup
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := l.participants(gCtx, tournament)
		if err != nil {
			return fmt.Errorf("failed to list participants of tournament %d: %w", tournamentID, err)
		}
		participants = list
		return nil
	})

	g.Go(func() error {
		list, err := l.matchups.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matchups of tournament %d: %w", tournamentID, err)
		}
		matchups = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newTournamentView(tournament, participants, matchups), nil
}

func (l *viewLoader) participants(ctx context.Context, t *models.Tournament) ([]*ParticipantView, error) {
	if t.ParticipantType == models.ParticipantTeam {
		teams, err := l.teams.ListByTournament(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		return teamParticipants(teams), nil
	}
	players, err := l.players.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return playerParticipants(players), nil
}
