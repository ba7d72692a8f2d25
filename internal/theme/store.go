// Package theme holds the page-wide dark/light preference and the colour
// tokens derived from it.
package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// StorageKey is the single durable key the preference lives under.
const StorageKey = "darkMode"

// ErrNotFound is returned by Storage.Get when the key has never been written.
var ErrNotFound = errors.New("theme: key not found")

// Storage is a durable string key-value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Store is the theme preference. The only mutation is Toggle. Subscribers are
// called synchronously, in subscription order, before Toggle returns.
type Store struct {
	mu      sync.Mutex
	isDark  bool
	storage Storage
	nextID  int
	subs    []subscriber
}

type subscriber struct {
	id int
	fn func(isDark bool)
}

// Load initialises a Store from storage. A missing, unreadable or unparsable
// value yields defaultDark.
func Load(ctx context.Context, storage Storage, defaultDark bool) *Store {
	s := &Store{isDark: defaultDark, storage: storage}
	if storage == nil {
		return s
	}
	raw, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return s
	}
	if v, ok := parse(raw); ok {
		s.isDark = v
	}
	return s
}

func parse(raw string) (bool, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func format(isDark bool) string {
	if isDark {
		return "true"
	}
	return "false"
}

// IsDark reports the current preference.
func (s *Store) IsDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDark
}

// Tokens returns the colour tokens for the current preference.
func (s *Store) Tokens() Tokens {
	return StyleFor(s.IsDark())
}

// Toggle flips the preference, writes it back to storage and notifies
// subscribers. When the write fails the in-memory value still flips,
// subscribers still run and the error is returned.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.isDark = !s.isDark
	isDark := s.isDark
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	var err error
	if s.storage != nil {
		if serr := s.storage.Set(ctx, StorageKey, format(isDark)); serr != nil {
			err = fmt.Errorf("persisting theme: %w", serr)
		}
	}

	for _, sub := range subs {
		sub.fn(isDark)
	}
	return isDark, err
}

// Subscribe registers fn for every change. The returned func unsubscribes and
// is safe to call more than once.
func (s *Store) Subscribe(fn func(isDark bool)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// MemoryStorage is a Storage kept in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
