package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
)

// InMemoryRepository is a map-backed Repository with the same error contract
// as the PostgreSQL one. Stored strings are cloned so callers may hand in
// views over reused buffers.
type InMemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]models.User
	byEmail map[string]int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[int64]models.User),
		byEmail: make(map[string]int64),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorConflict
	}

	r.nextID++
	now := time.Now().UTC()
	u := models.User{
		ID:           r.nextID,
		Email:        strings.Clone(user.Email),
		PasswordHash: strings.Clone(user.PasswordHash),
		Name:         strings.Clone(user.Name),
		Occupation:   strings.Clone(user.Occupation),
		CreatedAt:    &now,
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID

	out := u
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		u := u
		res = append(res, &u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int64, info models.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = strings.Clone(info.Name)
	u.Occupation = strings.Clone(info.Occupation)
	r.byID[id] = u
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}
