package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"cinefilia/internal/adapters/auth"
	"cinefilia/internal/domain"
	"cinefilia/internal/storage/memory"
	"cinefilia/internal/testkit"
)

// ---- fakes ----

// fakeCache round-trips through JSON like the Redis cache does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEvents) Record(entity, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, entity+":"+event)
}

func (r *recordingEvents) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

type failingUsers struct{ domain.UserRepository }

func (failingUsers) ListUsers(context.Context, []string) ([]domain.User, error) {
	return nil, errors.New("users down")
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func newTokens(t *testing.T) *auth.JWT {
	t.Helper()
	j, err := auth.NewJWT("unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	return j
}

func seedUser(t *testing.T, s *memory.Store, id, name string) domain.User {
	t.Helper()
	u := domain.User{ID: id, Username: name, Email: name + "@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func newCatalog() *testkit.Catalog { return testkit.NewCatalog() }
