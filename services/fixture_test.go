package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories/memory"
	"github.com/Dosada05/match-score/storage"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC)

type recordingUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newRecordingUploader() *recordingUploader {
	return &recordingUploader{objects: make(map[string][]byte)}
}

func (u *recordingUploader) Upload(_ context.Context, key string, _ string, body io.Reader) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key}, nil
}

func (u *recordingUploader) PublicURL(key string) string { return "https://cdn.example/" + key }

func (u *recordingUploader) get(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.objects[key]
	return b, ok
}

type fixture struct {
	tournaments *memory.TournamentRepository
	matchups    *memory.MatchupRepository
	players     *memory.PlayerRepository
	teams       *memory.TeamRepository
	tx          *memory.Transactor
	uploader    *recordingUploader
	tournament  TournamentService
	matchup     MatchupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	roster := make([]models.Player, 0, 16)
	for i := 1; i <= 16; i++ {
		roster = append(roster, models.Player{ID: i, FirstName: "Player", SecondName: string(rune('A' + i - 1))})
	}

	f := &fixture{
		matchups: memory.NewMatchupRepository(),
		uploader: newRecordingUploader(),
	}
	f.tournaments = memory.NewTournamentRepository(f.matchups)
	f.players = memory.NewPlayerRepository(roster, f.matchups)
	f.teams = memory.NewTeamRepository(f.matchups, f.players)
	f.tx = memory.NewTransactor(f.tournaments, f.matchups)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.tournament = NewTournamentService(f.tx, f.tournaments, f.matchups, f.players, f.teams, f.uploader, logger,
		WithClock(func() time.Time { return today }),
		WithRandom(rand.New(rand.NewPCG(7, 11))),
	)
	f.matchup = NewMatchupService(f.tx, f.tournaments, f.matchups, f.players, f.teams, f.uploader, logger)
	return f
}

func intPtr(v int) *int { return &v }

func score(one, two int) ScoreInput {
	return ScoreInput{ScoreOne: intPtr(one), ScoreTwo: intPtr(two)}
}

func (f *fixture) phase(t *testing.T, tournamentID, phase int) []*models.Matchup {
	t.Helper()
	list, err := f.matchups.ListByTournamentAndPhase(context.Background(), nil, tournamentID, phase)
	require.NoError(t, err)
	return list
}
