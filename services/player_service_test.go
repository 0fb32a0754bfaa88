package services

import (
	"context"
	"testing"

	"github.com/Dosada05/match-score/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlayerService(f.players, f.teams, f.tournaments)

	_, err := svc.CreatePlayer(ctx, CreatePlayerInput{FirstName: "  "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	p, err := svc.CreatePlayer(ctx, CreatePlayerInput{FirstName: "Ada", SecondName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, 17, p.ID)

	got, err := svc.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.DisplayName())

	_, err = svc.GetPlayer(ctx, 404)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	list, err := svc.ListPlayers(ctx, ListPlayersInput{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestPlayerServiceTeamFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlayerService(f.players, f.teams, f.tournaments)

	team := &models.Team{Name: "Reds"}
	require.NoError(t, f.teams.Create(ctx, team))

	_, err := svc.CreatePlayer(ctx, CreatePlayerInput{FirstName: "Eve", TeamID: intPtr(99)})
	assert.ErrorIs(t, err, ErrValidationFailed)

	for _, name := range []string{"Eve", "Mia"} {
		_, err := svc.CreatePlayer(ctx, CreatePlayerInput{FirstName: name, TeamID: &team.ID})
		require.NoError(t, err)
	}

	members, err := svc.ListPlayers(ctx, ListPlayersInput{TeamID: &team.ID})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Eve", members[0].FirstName)
	assert.Equal(t, team.ID, *members[1].TeamID)
}

func TestDeletePlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlayerService(f.players, f.teams, f.tournaments)
	createKnockout(t, f, 1, 2, 3, 4)

	err := svc.DeletePlayer(ctx, 2)
	assert.ErrorIs(t, err, ErrPlayerInUse)

	require.NoError(t, svc.DeletePlayer(ctx, 9))
	_, err = svc.GetPlayer(ctx, 9)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	assert.ErrorIs(t, svc.DeletePlayer(ctx, 9), ErrPlayerNotFound)
}
