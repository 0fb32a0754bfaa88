package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ a, b int }

func newPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func TestLeagueEveryPairMeetsOnce(t *testing.T) {
	for n := 2; n <= 24; n += 2 {
		matchups, err := NewLeagueBuilder().Build(3, participantIDs(n), startDate)
		require.NoError(t, err)
		require.Len(t, matchups, n*(n-1)/2)

		pairs := map[pair]int{}
		appearances := map[int]int{}
		perPhase := map[int]map[int]bool{}
		for _, m := range matchups {
			require.NotNil(t, m.ParticipantOne)
			require.NotNil(t, m.ParticipantTwo)
			a, b := *m.ParticipantOne, *m.ParticipantTwo
			require.NotEqual(t, a, b)

			pairs[newPair(a, b)]++
			appearances[a]++
			appearances[b]++

			if perPhase[m.Phase] == nil {
				perPhase[m.Phase] = map[int]bool{}
			}
			assert.False(t, perPhase[m.Phase][a], "participant %d twice in phase %d", a, m.Phase)
			assert.False(t, perPhase[m.Phase][b], "participant %d twice in phase %d", b, m.Phase)
			perPhase[m.Phase][a] = true
			perPhase[m.Phase][b] = true
		}

		assert.Len(t, pairs, n*(n-1)/2, "n=%d", n)
		for p, count := range pairs {
			assert.Equal(t, 1, count, "pair %v for n=%d", p, n)
		}
		for id, count := range appearances {
			assert.Equal(t, n-1, count, "participant %d for n=%d", id, n)
		}
		assert.Len(t, perPhase, n-1)
		for phase, seen := range perPhase {
			assert.Len(t, seen, n, "phase %d for n=%d", phase, n)
		}
	}
}

func TestLeagueWeeklyCadence(t *testing.T) {
	matchups, err := NewLeagueBuilder().Build(1, participantIDs(6), startDate)
	require.NoError(t, err)

	for _, m := range matchups {
		assert.Equal(t, startDate.AddDate(0, 0, 7*(m.Phase-1)), m.PlayedAt)
		assert.GreaterOrEqual(t, m.Sequence, 0)
		assert.Less(t, m.Sequence, 3)
	}
}

func TestLeagueFourParticipants(t *testing.T) {
	const a, b, c, d = 10, 20, 30, 40
	matchups, err := NewLeagueBuilder().Build(1, []int{a, b, c, d}, startDate)
	require.NoError(t, err)
	require.Len(t, matchups, 6)

	got := map[pair]int{}
	perPhase := map[int]int{}
	for _, m := range matchups {
		got[newPair(*m.ParticipantOne, *m.ParticipantTwo)]++
		perPhase[m.Phase]++
	}

	expected := []pair{newPair(a, b), newPair(a, c), newPair(a, d), newPair(b, c), newPair(b, d), newPair(c, d)}
	for _, p := range expected {
		assert.Equal(t, 1, got[p], "pair %v", p)
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, perPhase)

	// first phase pairs the fixed participant with the last one
	assert.Equal(t, a, *matchups[0].ParticipantOne)
	assert.Equal(t, d, *matchups[0].ParticipantTwo)
}

func TestLeagueRejectsInvalidCounts(t *testing.T) {
	for _, n := range []int{0, 1, 3, 7} {
		matchups, err := NewLeagueBuilder().Build(1, participantIDs(n), startDate)
		assert.ErrorIs(t, err, ErrInvalidParticipantCount, "n=%d", n)
		assert.Nil(t, matchups)
	}
}
