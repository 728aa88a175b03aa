// Package memory holds map-backed implementations of the domain ports. They
// back the use case and handler tests and a storage-free local run.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// Store is the shared state behind ProfileRepo, UserRepo and TxManager.
type Store struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profile.Profile
	users    map[uuid.UUID]*user.User
}

func NewStore() *Store {
	return &Store{
		profiles: make(map[uuid.UUID]*profile.Profile),
		users:    make(map[uuid.UUID]*user.User),
	}
}

func (s *Store) Profiles() profile.Repository { return &ProfileRepo{store: s} }
func (s *Store) Users() user.Repository       { return &UserRepo{store: s} }

func (s *Store) owner(userID uuid.UUID) *profile.Owner {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return &profile.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

type ProfileRepo struct {
	store *Store
}

func (r *ProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	out := cloneProfile(p)
	out.Owner = r.store.owner(userID)
	return out, nil
}

func (r *ProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*profile.Profile, 0, len(r.store.profiles))
	for userID, p := range r.store.profiles {
		c := cloneProfile(p)
		c.Owner = r.store.owner(userID)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProfileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.profiles[p.UserID]; exists {
		return profile.ErrProfileExists
	}
	r.store.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func (r *ProfileRepo) Merge(_ context.Context, userID uuid.UUID, u profile.Update) (*profile.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.Apply(u, time.Now().UTC())
	p.Version++
	return cloneProfile(p), nil
}

func (r *ProfileRepo) SaveLists(_ context.Context, p *profile.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.profiles[p.UserID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	if stored.Version != p.Version {
		return profile.ErrVersionConflict
	}
	stored.Experience = append([]profile.Experience{}, p.Experience...)
	stored.Education = append([]profile.Education{}, p.Education...)
	stored.UpdatedAt = p.UpdatedAt
	stored.Version++
	p.Version = stored.Version
	return nil
}

func (r *ProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.profiles, userID)
	return nil
}

type UserRepo struct {
	store *Store
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *u
	r.store.users[u.ID] = &c
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.users, id)
	// Mirrors ON DELETE CASCADE.
	delete(r.store.profiles, id)
	return nil
}

// TxManager snapshots the store and restores it when fn fails. Transactions
// are not isolated from each other.
type TxManager struct {
	store *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{store: s}
}

func (m *TxManager) Execute(_ context.Context, fn service.TxFunc) error {
	m.store.mu.Lock()
	profiles := make(map[uuid.UUID]*profile.Profile, len(m.store.profiles))
	for k, v := range m.store.profiles {
		profiles[k] = cloneProfile(v)
	}
	users := make(map[uuid.UUID]*user.User, len(m.store.users))
	for k, v := range m.store.users {
		c := *v
		users[k] = &c
	}
	m.store.mu.Unlock()

	if err := fn(m.store.Profiles(), m.store.Users()); err != nil {
		m.store.mu.Lock()
		m.store.profiles = profiles
		m.store.users = users
		m.store.mu.Unlock()
		return err
	}
	return nil
}

func cloneProfile(p *profile.Profile) *profile.Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]profile.Experience{}, p.Experience...)
	c.Education = append([]profile.Education{}, p.Education...)
	if p.Owner != nil {
		o := *p.Owner
		c.Owner = &o
	}
	return &c
}
