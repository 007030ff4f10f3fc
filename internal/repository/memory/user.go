package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{users: make(map[string]user.User)}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.Must(uuid.NewV7()).String()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	now := time.Now()
	u.ID = uuid.Must(uuid.NewV7()).String()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = u
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	u.UpdatedAt = time.Now()
	r.users[userID] = u
	return nil
}

func (r *UserRepository) List(ctx context.Context, role *user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[u.ID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	current.Email = u.Email
	current.Role = u.Role
	current.UpdatedAt = time.Now()
	r.users[u.ID] = current
	return current, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
