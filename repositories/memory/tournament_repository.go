package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

type TournamentRepository struct {
	mu       sync.RWMutex
	nextID   int
	items    map[int]models.Tournament
	matchups *MatchupRepository
}

// NewTournamentRepository creates an empty store; matchups answers who plays where.
func NewTournamentRepository(matchups *MatchupRepository) *TournamentRepository {
	return &TournamentRepository{nextID: 1, items: make(map[int]models.Tournament), matchups: matchups}
}

func (r *TournamentRepository) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Title == t.Title {
			return repositories.ErrTournamentTitleConflict
		}
	}
	if t.ParticipantType == "" {
		t.ParticipantType = models.ParticipantPlayer
	}
	t.ID = r.nextID
	t.CreatedAt = time.Now().UTC()
	r.nextID++
	r.items[t.ID] = cloneTournament(*t)
	return nil
}

func (r *TournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := cloneTournament(t)
	return &out, nil
}

func (r *TournamentRepository) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*models.Tournament, 0, len(r.items))
	for _, t := range r.items {
		if filter.Format != nil && t.Format != *filter.Format {
			continue
		}
		c := cloneTournament(t)
		all = append(all, &c)
	}
	// newest first, same as the postgres ordering
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if filter.Offset >= len(all) {
		return []*models.Tournament{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (r *TournamentRepository) UpdateWinner(_ context.Context, _ repositories.SQLExecutor, id int, winnerID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.WinnerID = copyInt(winnerID)
	r.items[id] = t
	return nil
}

func (r *TournamentRepository) ExistsWithParticipant(ctx context.Context, participantType models.ParticipantType, participantID int) (bool, error) {
	r.mu.RLock()
	ids := make([]int, 0)
	for id, t := range r.items {
		if t.ParticipantType == participantType {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range ids {
		matchups, err := r.matchups.ListByTournament(ctx, id)
		if err != nil {
			return false, err
		}
		for _, m := range matchups {
			if m.HasParticipant(participantID) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *TournamentRepository) Snapshot() func() {
	r.mu.RLock()
	items := make(map[int]models.Tournament, len(r.items))
	for id, t := range r.items {
		items[id] = cloneTournament(t)
	}
	next := r.nextID
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.items, r.nextID = items, next
		r.mu.Unlock()
	}
}

func cloneTournament(t models.Tournament) models.Tournament {
	t.WinnerID = copyInt(t.WinnerID)
	if t.Prize != nil {
		prize := *t.Prize
		t.Prize = &prize
	}
	return t
}
