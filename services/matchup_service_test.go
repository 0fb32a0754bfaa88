package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
	"github.com/Dosada05/match-score/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createKnockout(t *testing.T, f *fixture, participants ...int) int {
	t.Helper()
	view, err := f.tournament.CreateKnockout(context.Background(), knockoutInput("Cup", participants...))
	require.NoError(t, err)
	return view.Tournament.ID
}

func TestRecordScorePromotesWinnersToFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4)

	semis := f.phase(t, id, 1)
	require.Len(t, semis, 2)

	res, err := f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(3, 1))
	require.NoError(t, err)
	require.NotNil(t, res.Successor)
	assert.Equal(t, *semis[0].ParticipantOne, *res.Successor.ParticipantOne)
	assert.Nil(t, res.Successor.ParticipantTwo)

	_, err = f.matchup.RecordScore(ctx, semis[1].ID, models.FormatKnockout, score(0, 2))
	require.NoError(t, err)

	finals := f.phase(t, id, 2)
	require.Len(t, finals, 1)
	final := finals[0]
	assert.Equal(t, *semis[0].ParticipantOne, *final.ParticipantOne)
	assert.Equal(t, *semis[1].ParticipantTwo, *final.ParticipantTwo)

	res, err = f.matchup.RecordScore(ctx, final.ID, models.FormatKnockout, score(1, 4))
	require.NoError(t, err)
	require.NotNil(t, res.WinnerID)
	assert.Equal(t, *final.ParticipantTwo, *res.WinnerID)

	tournament, err := f.tournaments.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, tournament.WinnerID)
	assert.Equal(t, *final.ParticipantTwo, *tournament.WinnerID)
}

func TestRecordScorePlacesByParity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4, 5, 6, 7, 8)

	quarters := f.phase(t, id, 1)
	require.Len(t, quarters, 4)

	// sequence 3 feeds slot two of sequence 1
	_, err := f.matchup.RecordScore(ctx, quarters[3].ID, models.FormatKnockout, score(5, 0))
	require.NoError(t, err)

	semis := f.phase(t, id, 2)
	assert.True(t, semis[0].IsPlaceholder())
	assert.Nil(t, semis[1].ParticipantOne)
	require.NotNil(t, semis[1].ParticipantTwo)
	assert.Equal(t, *quarters[3].ParticipantOne, *semis[1].ParticipantTwo)
}

func TestRecordScoreIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4)
	semis := f.phase(t, id, 1)

	_, err := f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(2, 1))
	require.NoError(t, err)
	before := f.phase(t, id, 2)[0]

	res, err := f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(2, 1))
	require.NoError(t, err)
	assert.Nil(t, res.Successor, "nothing to promote the second time")
	assert.Equal(t, before, f.phase(t, id, 2)[0])
}

func TestRecordScoreChangesWinnerBeforeSuccessorIsPlayed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4)
	semis := f.phase(t, id, 1)

	_, err := f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(2, 1))
	require.NoError(t, err)
	_, err = f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(1, 2))
	require.NoError(t, err)

	final := f.phase(t, id, 2)[0]
	assert.Equal(t, *semis[0].ParticipantTwo, *final.ParticipantOne)
}

func TestRecordScoreLockedOncePlayed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4)
	semis := f.phase(t, id, 1)

	_, err := f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(2, 1))
	require.NoError(t, err)
	_, err = f.matchup.RecordScore(ctx, semis[1].ID, models.FormatKnockout, score(2, 1))
	require.NoError(t, err)
	final := f.phase(t, id, 2)[0]
	_, err = f.matchup.RecordScore(ctx, final.ID, models.FormatKnockout, score(3, 0))
	require.NoError(t, err)

	_, err = f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(0, 1))
	assert.ErrorIs(t, err, ErrResultLocked)

	stored, err := f.matchup.GetMatchup(ctx, semis[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *stored.ScoreOne, "rejected update leaves the score untouched")

	// same winner with a different score is still accepted
	_, err = f.matchup.RecordScore(ctx, semis[0].ID, models.FormatKnockout, score(4, 1))
	assert.NoError(t, err)
}

func TestRecordScoreErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4)
	semis := f.phase(t, id, 1)
	final := f.phase(t, id, 2)[0]

	testCases := []struct {
		name      string
		matchupID int
		format    models.Format
		input     ScoreInput
		wantErr   error
	}{
		{name: "draw", matchupID: semis[0].ID, format: models.FormatKnockout, input: score(1, 1), wantErr: ErrInvalidScore},
		{name: "negative", matchupID: semis[0].ID, format: models.FormatKnockout, input: score(-1, 2), wantErr: ErrInvalidScore},
		{name: "missing score", matchupID: semis[0].ID, format: models.FormatKnockout, input: ScoreInput{ScoreOne: intPtr(1)}, wantErr: ErrInvalidScore},
		{name: "unknown matchup", matchupID: 404, format: models.FormatKnockout, input: score(2, 1), wantErr: ErrMatchupNotFound},
		{name: "league endpoint", matchupID: semis[0].ID, format: models.FormatLeague, input: score(2, 1), wantErr: ErrFormatMismatch},
		{name: "placeholder", matchupID: final.ID, format: models.FormatKnockout, input: score(2, 1), wantErr: ErrMatchupNotReady},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matchup.RecordScore(ctx, tc.matchupID, tc.format, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	for _, m := range f.phase(t, id, 1) {
		assert.False(t, m.HasResult())
	}
}

func TestRecordLeagueScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.tournament.CreateLeague(ctx, knockoutInput("League", 1, 2, 3, 4))
	require.NoError(t, err)
	first := view.Matchups[0]

	res, err := f.matchup.RecordScore(ctx, first.ID, models.FormatLeague, score(0, 3))
	require.NoError(t, err)
	assert.Nil(t, res.Successor)
	assert.Nil(t, res.WinnerID)

	_, err = f.matchup.RecordScore(ctx, first.ID, models.FormatKnockout, score(0, 3))
	assert.ErrorIs(t, err, ErrFormatMismatch)

	list, err := f.matchup.ListMatchups(ctx, view.Tournament.ID)
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, 3, *list[0].ScoreTwo)

	tournament, err := f.tournaments.GetByID(ctx, view.Tournament.ID)
	require.NoError(t, err)
	assert.Nil(t, tournament.WinnerID)
}

func TestListMatchupsUnknownTournament(t *testing.T) {
	f := newFixture(t)
	_, err := f.matchup.ListMatchups(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

type trackingTx struct {
	inner  *memory.Transactor
	mu     sync.Mutex
	active bool
}

func (t *trackingTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return t.inner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t.setActive(true)
		defer t.setActive(false)
		return fn(exec)
	})
}

func (t *trackingTx) setActive(v bool) {
	t.mu.Lock()
	t.active = v
	t.mu.Unlock()
}

func (t *trackingTx) isActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

type lockedPosition struct {
	phase, sequence int
	inTx            bool
}

// lockingMatchups записывает, какие строки читались с блокировкой и внутри ли транзакции.
type lockingMatchups struct {
	*memory.MatchupRepository
	tx     *trackingTx
	mu     sync.Mutex
	locked []lockedPosition
}

func (r *lockingMatchups) GetByPositionForUpdate(ctx context.Context, exec repositories.SQLExecutor, tournamentID, phase, sequence int) (*models.Matchup, error) {
	r.mu.Lock()
	r.locked = append(r.locked, lockedPosition{phase: phase, sequence: sequence, inTx: r.tx.isActive()})
	r.mu.Unlock()
	return r.MatchupRepository.GetByPositionForUpdate(ctx, exec, tournamentID, phase, sequence)
}

func TestRecordScoreLocksSuccessorInsideTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := createKnockout(t, f, 1, 2, 3, 4, 5, 6, 7, 8)

	tx := &trackingTx{inner: f.tx}
	repo := &lockingMatchups{MatchupRepository: f.matchups, tx: tx}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewMatchupService(tx, f.tournaments, repo, f.players, f.teams, f.uploader, logger)

	quarters := f.phase(t, id, 1)
	_, err := svc.RecordScore(ctx, quarters[2].ID, models.FormatKnockout, score(1, 0))
	require.NoError(t, err)
	_, err = svc.RecordScore(ctx, quarters[3].ID, models.FormatKnockout, score(0, 1))
	require.NoError(t, err)

	assert.Equal(t, []lockedPosition{
		{phase: 2, sequence: 1, inTx: true},
		{phase: 2, sequence: 1, inTx: true},
	}, repo.locked)

	semi := f.phase(t, id, 2)[1]
	require.NotNil(t, semi.ParticipantOne)
	require.NotNil(t, semi.ParticipantTwo)
	assert.Equal(t, *quarters[2].ParticipantOne, *semi.ParticipantOne)
	assert.Equal(t, *quarters[3].ParticipantTwo, *semi.ParticipantTwo)
}

func TestRecordScoreSiblingsConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	players := make([]int, 16)
	for i := range players {
		players[i] = i + 1
	}
	id := createKnockout(t, f, players...)

	for phase := 1; phase <= 4; phase++ {
		matchups := f.phase(t, id, phase)
		want := make(map[int]int, len(matchups))

		var wg sync.WaitGroup
		errs := make(chan error, len(matchups))
		for _, m := range matchups {
			require.False(t, m.ParticipantOne == nil || m.ParticipantTwo == nil,
				"phase %d sequence %d is not filled", phase, m.Sequence)
			// нечетные позиции выигрывает второй участник
			if m.Sequence%2 == 0 {
				want[m.Sequence] = *m.ParticipantOne
			} else {
				want[m.Sequence] = *m.ParticipantTwo
			}

			wg.Add(1)
			go func(m *models.Matchup) {
				defer wg.Done()
				in := score(2, 1)
				if m.Sequence%2 == 1 {
					in = score(1, 2)
				}
				_, err := f.matchup.RecordScore(ctx, m.ID, models.FormatKnockout, in)
				errs <- err
			}(m)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		if phase == 4 {
			tournament, err := f.tournaments.GetByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, tournament.WinnerID)
			assert.Equal(t, want[0], *tournament.WinnerID)
			continue
		}
		for _, next := range f.phase(t, id, phase+1) {
			require.NotNil(t, next.ParticipantOne, "phase %d sequence %d", phase+1, next.Sequence)
			require.NotNil(t, next.ParticipantTwo, "phase %d sequence %d", phase+1, next.Sequence)
			assert.Equal(t, want[2*next.Sequence], *next.ParticipantOne)
			assert.Equal(t, want[2*next.Sequence+1], *next.ParticipantTwo)
		}
	}
}
