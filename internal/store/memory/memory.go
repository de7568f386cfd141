// Package memory implements core.AccountStore in process memory.
// Para desarrollo y tests; mantiene el mismo contrato de unicidad
// (email, provider) que el adapter de Postgres.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/holamaria/internal/store/core"
)

type Store struct {
	mu   sync.RWMutex
	byID map[string]*core.Account
	// key provider + "\x00" + email
	byKey map[string]string
}

func New() *Store {
	return &Store{
		byID:  make(map[string]*core.Account),
		byKey: make(map[string]string),
	}
}

func key(email, provider string) string {
	return provider + "\x00" + strings.ToLower(email)
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) GetByID(ctx context.Context, id string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetByEmailProvider(ctx context.Context, email, provider string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[key(email, provider)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *Store) Create(ctx context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Email = strings.ToLower(a.Email)
	k := key(a.Email, a.Provider)
	if _, exists := s.byKey[k]; exists {
		return core.ErrConflict
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	cp := *a
	s.byID[a.ID] = &cp
	s.byKey[k] = a.ID
	return nil
}

func (s *Store) Update(ctx context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[a.ID]
	if !ok {
		return core.ErrNotFound
	}
	a.Email = strings.ToLower(a.Email)
	newKey := key(a.Email, a.Provider)
	oldKey := key(old.Email, old.Provider)
	if newKey != oldKey {
		if _, exists := s.byKey[newKey]; exists {
			return core.ErrConflict
		}
		delete(s.byKey, oldKey)
		s.byKey[newKey] = a.ID
	}
	a.UpdatedAt = time.Now().UTC()

	cp := *a
	s.byID[a.ID] = &cp
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	delete(s.byKey, key(a.Email, a.Provider))
	delete(s.byID, id)
	return nil
}
