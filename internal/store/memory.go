package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process implementation with real TTL semantics,
// used by tests and local development. Expired entries are dropped lazily
// on access, so SetIfAbsent observes the same self-healing behavior a
// crashed lock holder gets from Redis key expiry.
type MemoryStore struct {
	mu    sync.Mutex
	kv    map[string]memoryEntry
	sets  map[string]map[string]struct{}
	lists map[string][]string

	// now is swappable so TTL behavior can be tested without sleeping.
	now func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kv:    make(map[string]memoryEntry),
		sets:  make(map[string]map[string]struct{}),
		lists: make(map[string][]string),
		now:   time.Now,
	}
}

// SetClock overrides the store's time source. Test-only.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.kv[key]
	if !ok {
		return "", false, nil
	}
	if entry.expired(s.now()) {
		delete(s.kv, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.kv[key] = entry
	return nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.kv[key]; ok && !entry.expired(s.now()) {
		return false, nil
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.kv[key] = entry
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *MemoryStore) AddToSet(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sets[key] == nil {
		s.sets[key] = make(map[string]struct{})
	}
	s.sets[key][member] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveFromSet(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[key], member)
	return nil
}

func (s *MemoryStore) MembersOf(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

func (s *MemoryStore) PushToList(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append([]string{value}, s.lists[key]...)
	return nil
}

func (s *MemoryStore) ListRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := sliceRange(s.lists[key], start, stop)
	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) RemoveFromList(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.lists[key]
	for i, item := range items {
		if item == value {
			s.lists[key] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
