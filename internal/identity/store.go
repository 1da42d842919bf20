package identity

import (
	"context"
	"sync"
)

// Store is the identity repository. FindByEmail and FindByID return
// (nil, nil) when no record matches.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Create(ctx context.Context, identity *Identity) error
	Update(ctx context.Context, identity *Identity) error
	List(ctx context.Context) ([]*Identity, error)
}

// MemoryStore keeps identities in insertion order. Records are cloned on the
// way in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	identities []*Identity
}

func NewMemoryStore(seed ...*Identity) *MemoryStore {
	s := &MemoryStore{}
	for _, i := range seed {
		s.identities = append(s.identities, i.Clone())
	}
	return s
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, i := range s.identities {
		if i.Email == email {
			return i.Clone(), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, i := range s.identities {
		if i.ID == id {
			return i.Clone(), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Create(_ context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range s.identities {
		if i.Email == identity.Email {
			return ErrDuplicateEmail
		}
	}
	s.identities = append(s.identities, identity.Clone())
	return nil
}

func (s *MemoryStore) Update(_ context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n, i := range s.identities {
		if i.ID == identity.ID {
			s.identities[n] = identity.Clone()
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Identity, len(s.identities))
	for n, i := range s.identities {
		out[n] = i.Clone()
	}
	return out, nil
}
