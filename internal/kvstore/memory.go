package kvstore

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests. It honors TTLs and
// glob patterns the way Redis does for the key shapes this platform uses.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]memoryEntry
	subs   map[string][]*memorySubscription
	closed bool

	// FailOps, when true, makes every data operation fail. Lets tests
	// exercise the degraded-store paths.
	FailOps bool
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		subs: make(map[string][]*memorySubscription),
	}
}

var errStoreDown = &storeDownError{}

type storeDownError struct{}

func (*storeDownError) Error() string { return "kvstore: store unavailable" }

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return "", errStoreDown
	}
	entry, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.data, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreDown
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreDown
	}
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreDown
	}
	for key := range s.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.data, key)
		}
	}
	return nil
}

func (s *MemoryStore) Publish(_ context.Context, channel, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreDown
	}
	for _, sub := range s.subs[channel] {
		select {
		case sub.messages <- payload:
		default:
			// slow subscriber, drop; delivery is best-effort
		}
	}
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, channel string) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return nil, errStoreDown
	}
	sub := &memorySubscription{
		store:    s,
		channel:  channel,
		messages: make(chan string, 64),
	}
	s.subs[channel] = append(s.subs[channel], sub)
	return sub, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for channel, subs := range s.subs {
		for _, sub := range subs {
			sub.once.Do(func() { close(sub.messages) })
		}
		delete(s.subs, channel)
	}
	return nil
}

// Keys returns the live keys, for test assertions.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	keys := make([]string, 0, len(s.data))
	for key, entry := range s.data {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

type memorySubscription struct {
	store    *MemoryStore
	channel  string
	messages chan string
	once     sync.Once
}

func (s *memorySubscription) Messages() <-chan string {
	return s.messages
}

func (s *memorySubscription) Close() error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.once.Do(func() {
		subs := s.store.subs[s.channel]
		for i, sub := range subs {
			if sub == s {
				s.store.subs[s.channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(s.messages)
	})
	return nil
}
