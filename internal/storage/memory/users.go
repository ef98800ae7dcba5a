package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
)

type usersStorage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]storage.User
	byEmail map[string]uuid.UUID
}

func newUsersStorage() *usersStorage {
	return &usersStorage{
		users:   make(map[uuid.UUID]storage.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *usersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := s.byEmail[key]; taken {
		return storage.ErrConflict
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	s.users[user.ID] = copyUser(*user)
	s.byEmail[key] = user.ID
	return nil
}

func (s *usersStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := copyUser(u)
	return &out, nil
}

func (s *usersStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := copyUser(s.users[id])
	return &out, nil
}

func (s *usersStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}

	existing.Name = user.Name
	existing.DateOfBirth = user.DateOfBirth
	existing.WeightKg = user.WeightKg
	existing.HeightCm = user.HeightCm
	existing.Goal = user.Goal
	existing.ActivityLevel = user.ActivityLevel
	existing.Restrictions = cloneStrings(user.Restrictions)
	existing.UpdatedAt = now()

	s.users[user.ID] = existing
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *usersStorage) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	existing.PasswordHash = hash
	existing.UpdatedAt = now()
	s.users[id] = existing
	return nil
}

func copyUser(u storage.User) storage.User {
	u.Restrictions = cloneStrings(u.Restrictions)
	return u
}
