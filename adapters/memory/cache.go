package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

type ProfileCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*profile.Profile
}

func NewProfileCache() *ProfileCache {
	return &ProfileCache{entries: make(map[uuid.UUID]*profile.Profile)}
}

func (c *ProfileCache) Get(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

func (c *ProfileCache) Set(_ context.Context, p *profile.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[p.UserID] = cloneProfile(p)
	return nil
}

func (c *ProfileCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

// Has reports whether userID currently has a cached entry.
func (c *ProfileCache) Has(userID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[userID]
	return ok
}

// EventSink records published profile events.
type EventSink struct {
	mu     sync.Mutex
	events []profile.Event
}

func NewEventSink() *EventSink {
	return &EventSink{}
}

func (s *EventSink) PublishProfileEvent(_ context.Context, e profile.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)
	return nil
}

func (s *EventSink) Events() []profile.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]profile.Event(nil), s.events...)
}
