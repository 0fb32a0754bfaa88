package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

type PlayerRepository struct {
	mu       sync.RWMutex
	nextID   int
	items    map[int]models.Player
	matchups *MatchupRepository
}

// NewPlayerRepository seeds the store; matchups is used to find who plays in a tournament.
func NewPlayerRepository(players []models.Player, matchups *MatchupRepository) *PlayerRepository {
	items := make(map[int]models.Player, len(players))
	next := 1
	for _, p := range players {
		items[p.ID] = clonePlayer(p)
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return &PlayerRepository{nextID: next, items: items, matchups: matchups}
}

func (r *PlayerRepository) Create(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player.ID = r.nextID
	r.nextID++
	r.items[player.ID] = clonePlayer(*player)
	return nil
}

func (r *PlayerRepository) List(_ context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*models.Player, 0, len(r.items))
	for _, p := range r.items {
		if filter.TeamID != nil && (p.TeamID == nil || *p.TeamID != *filter.TeamID) {
			continue
		}
		c := clonePlayer(p)
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if filter.Offset >= len(all) {
		return []*models.Player{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []int) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool, len(ids))
	out := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.items[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		c := clonePlayer(p)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	ids, err := participantIDs(ctx, r.matchups, tournamentID)
	if err != nil {
		return nil, err
	}
	return r.GetByIDs(ctx, ids)
}

func (r *PlayerRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.items, id)
	return nil
}

// clearTeam mirrors ON DELETE SET NULL on players.team_id.
func (r *PlayerRepository) clearTeam(teamID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		if p.TeamID != nil && *p.TeamID == teamID {
			p.TeamID = nil
			r.items[id] = p
		}
	}
}

func clonePlayer(p models.Player) models.Player {
	p.TeamID = copyInt(p.TeamID)
	return p
}

func participantIDs(ctx context.Context, matchups *MatchupRepository, tournamentID int) ([]int, error) {
	list, err := matchups.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, m := range list {
		if m.ParticipantOne != nil {
			ids = append(ids, *m.ParticipantOne)
		}
		if m.ParticipantTwo != nil {
			ids = append(ids, *m.ParticipantTwo)
		}
	}
	return ids, nil
}
