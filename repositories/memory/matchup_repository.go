package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

type MatchupRepository struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]models.Matchup
}

func NewMatchupRepository() *MatchupRepository {
	return &MatchupRepository{nextID: 1, items: make(map[int]models.Matchup)}
}

func (r *MatchupRepository) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matchups []*models.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matchups {
		for _, existing := range r.items {
			if existing.TournamentID == m.TournamentID && existing.Phase == m.Phase && existing.Sequence == m.Sequence {
				return repositories.ErrMatchupPositionConflict
			}
		}
	}
	for _, m := range matchups {
		m.ID = r.nextID
		r.nextID++
		r.items[m.ID] = cloneMatchup(*m)
	}
	return nil
}

func (r *MatchupRepository) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrMatchupNotFound
	}
	out := cloneMatchup(m)
	return &out, nil
}

// GetByPositionForUpdate does not lock anything itself; the Transactor mutex already
// serializes every unit of work touching this store.
func (r *MatchupRepository) GetByPositionForUpdate(_ context.Context, _ repositories.SQLExecutor, tournamentID, phase, sequence int) (*models.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.Phase == phase && m.Sequence == sequence {
			out := cloneMatchup(m)
			return &out, nil
		}
	}
	return nil, repositories.ErrMatchupNotFound
}

func (r *MatchupRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Matchup, error) {
	return r.filter(func(m models.Matchup) bool { return m.TournamentID == tournamentID }), nil
}

func (r *MatchupRepository) ListByTournamentAndPhase(_ context.Context, _ repositories.SQLExecutor, tournamentID, phase int) ([]*models.Matchup, error) {
	return r.filter(func(m models.Matchup) bool {
		return m.TournamentID == tournamentID && m.Phase == phase
	}), nil
}

func (r *MatchupRepository) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id int, scoreOne, scoreTwo int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return repositories.ErrMatchupNotFound
	}
	m.ScoreOne, m.ScoreTwo = &scoreOne, &scoreTwo
	r.items[id] = m
	return nil
}

func (r *MatchupRepository) UpdateParticipants(_ context.Context, _ repositories.SQLExecutor, id int, participantOne, participantTwo *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return repositories.ErrMatchupNotFound
	}
	m.ParticipantOne, m.ParticipantTwo = copyInt(participantOne), copyInt(participantTwo)
	r.items[id] = m
	return nil
}

func (r *MatchupRepository) Snapshot() func() {
	r.mu.RLock()
	items := make(map[int]models.Matchup, len(r.items))
	for id, m := range r.items {
		items[id] = cloneMatchup(m)
	}
	next := r.nextID
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.items, r.nextID = items, next
		r.mu.Unlock()
	}
}

func (r *MatchupRepository) filter(keep func(models.Matchup) bool) []*models.Matchup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Matchup, 0)
	for _, m := range r.items {
		if keep(m) {
			c := cloneMatchup(m)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

func cloneMatchup(m models.Matchup) models.Matchup {
	m.ParticipantOne = copyInt(m.ParticipantOne)
	m.ParticipantTwo = copyInt(m.ParticipantTwo)
	m.ScoreOne = copyInt(m.ScoreOne)
	m.ScoreTwo = copyInt(m.ScoreTwo)
	return m
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
