package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

type TeamRepository struct {
	mu       sync.RWMutex
	nextID   int
	items    map[int]models.Team
	matchups *MatchupRepository
	players  *PlayerRepository
}

// NewTeamRepository creates an empty store. players may be nil; when set, deleting
// a team detaches its members.
func NewTeamRepository(matchups *MatchupRepository, players *PlayerRepository) *TeamRepository {
	return &TeamRepository{nextID: 1, items: make(map[int]models.Team), matchups: matchups, players: players}
}

func (r *TeamRepository) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	team.CreatedAt = time.Now().UTC()
	r.nextID++
	r.items[team.ID] = *team
	return nil
}

func (r *TeamRepository) GetByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool, len(ids))
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := r.items[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) List(_ context.Context, limit, offset int) ([]*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*models.Team, 0, len(r.items))
	for _, t := range r.items {
		all = append(all, &t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*models.Team{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	ids, err := participantIDs(ctx, r.matchups, tournamentID)
	if err != nil {
		return nil, err
	}
	return r.GetByIDs(ctx, ids)
}

func (r *TeamRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return repositories.ErrTeamNotFound
	}
	delete(r.items, id)
	r.mu.Unlock()

	if r.players != nil {
		r.players.clearTeam(id)
	}
	return nil
}
