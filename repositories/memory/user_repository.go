package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

type UserRepository struct {
	mu      sync.RWMutex
	nextID  int
	byEmail map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, byEmail: make(map[string]models.User)}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.nextID++
	r.byEmail[key] = *user
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, u, ok := r.findByID(id); ok {
		return &u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*models.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*models.User{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id int, role models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, u, ok := r.findByID(id)
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	r.byEmail[key] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, _, ok := r.findByID(id)
	if !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.byEmail, key)
	return nil
}

// findByID expects r.mu to be held.
func (r *UserRepository) findByID(id int) (string, models.User, bool) {
	for key, u := range r.byEmail {
		if u.ID == id {
			return key, u, true
		}
	}
	return "", models.User{}, false
}
