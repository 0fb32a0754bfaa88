package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/match-score/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeamService(f *fixture) TeamService {
	return NewTeamService(f.teams, f.players, f.tournaments, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTeamService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTeamService(f)

	_, err := svc.CreateTeam(ctx, CreateTeamInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	reds, err := svc.CreateTeam(ctx, CreateTeamInput{Name: " Reds "})
	require.NoError(t, err)
	assert.Equal(t, "Reds", reds.Name)

	_, err = svc.CreateTeam(ctx, CreateTeamInput{Name: "Reds"})
	assert.ErrorIs(t, err, ErrTeamNameConflict)

	_, err = svc.CreateTeam(ctx, CreateTeamInput{Name: "Blues"})
	require.NoError(t, err)

	list, err := svc.ListTeams(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, f.players.Create(ctx, &models.Player{FirstName: "Eve", TeamID: &reds.ID}))
	details, err := svc.GetTeam(ctx, reds.ID)
	require.NoError(t, err)
	require.Len(t, details.Players, 1)
	assert.Equal(t, "Eve", details.Players[0].FirstName)

	_, err = svc.GetTeam(ctx, 404)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTeamService(f)

	var ids []int
	for _, name := range []string{"Reds", "Blues", "Greens", "Whites", "Spare"} {
		team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, team.ID)
	}
	input := knockoutInput("Team Cup", ids[:4]...)
	input.ParticipantType = models.ParticipantTeam
	_, err := f.tournament.CreateKnockout(ctx, input)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteTeam(ctx, ids[0]), ErrTeamInUse)

	spare := ids[4]
	member := &models.Player{FirstName: "Eve", TeamID: &spare}
	require.NoError(t, f.players.Create(ctx, member))

	require.NoError(t, svc.DeleteTeam(ctx, spare))
	_, err = svc.GetTeam(ctx, spare)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.ErrorIs(t, svc.DeleteTeam(ctx, spare), ErrTeamNotFound)

	found, err := f.players.GetByIDs(ctx, []int{member.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Nil(t, found[0].TeamID)
}

func TestDeleteTeamIgnoresPlayerTournaments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTeamService(f)

	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Reds"})
	require.NoError(t, err)
	// player 1 shares the id with the team, but plays a player tournament
	createKnockout(t, f, team.ID, 2, 3, 4)

	assert.NoError(t, svc.DeleteTeam(ctx, team.ID))
}
