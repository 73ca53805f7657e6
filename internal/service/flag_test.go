package service

import (
	"context"
	"errors"
	"testing"

	"multizone/internal/metrics"
	"multizone/internal/model"
	"multizone/internal/repository"
)

// mockFlagRepo is a hand-rolled repository.FlagInterface with call counting.
type mockFlagRepo struct {
	flags     map[string]model.FeatureFlag
	nextID    uint
	getCalls  int
	listCalls int
	createErr error
}

func newMockFlagRepo() *mockFlagRepo {
	return &mockFlagRepo{flags: make(map[string]model.FeatureFlag), nextID: 1}
}

func (m *mockFlagRepo) Create(ctx context.Context, flag *model.FeatureFlag) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.flags[flag.Key]; ok {
		return repository.ErrDuplicate
	}
	flag.ID = m.nextID
	m.nextID++
	m.flags[flag.Key] = *flag
	return nil
}

func (m *mockFlagRepo) List(ctx context.Context) ([]model.FeatureFlag, error) {
	m.listCalls++
	out := make([]model.FeatureFlag, 0, len(m.flags))
	for _, f := range m.flags {
		out = append(out, f)
	}
	return out, nil
}

func (m *mockFlagRepo) GetByKey(ctx context.Context, key string) (*model.FeatureFlag, error) {
	m.getCalls++
	f, ok := m.flags[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (m *mockFlagRepo) UpdateByKey(ctx context.Context, key string, updates map[string]any) (*model.FeatureFlag, error) {
	f, ok := m.flags[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["enabled"]; ok {
		f.Enabled = v.(bool)
	}
	if v, ok := updates["name"]; ok {
		f.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		f.Description = v.(string)
	}
	if v, ok := updates["key"]; ok {
		f.Key = v.(string)
	}
	m.flags[key] = f
	return &f, nil
}

func (m *mockFlagRepo) DeleteByKey(ctx context.Context, key string) error {
	if _, ok := m.flags[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.flags, key)
	return nil
}

func newFlagService(repo repository.FlagInterface) *FlagService {
	return NewFlagService(repo, NewFlagCache(), metrics.Nop())
}

func TestFlagService_CreateForcesDisabled(t *testing.T) {
	repo := newMockFlagRepo()
	svc := newFlagService(repo)

	flag, err := svc.Create(context.Background(), "beta_features", "Beta Features", "testing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flag.Enabled {
		t.Error("new flags must start disabled")
	}

	// The committed record lands in the cache on the write path.
	got, err := svc.Get(context.Background(), "beta_features")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Enabled {
		t.Error("expected disabled flag from cache")
	}
	if repo.getCalls != 0 {
		t.Errorf("expected the read to be served from cache, repo saw %d gets", repo.getCalls)
	}
}

func TestFlagService_GetReadThrough(t *testing.T) {
	repo := newMockFlagRepo()
	repo.flags["beta"] = model.FeatureFlag{ID: 1, Key: "beta", Name: "Beta"}
	svc := newFlagService(repo)

	// Miss populates the cache.
	if _, err := svc.Get(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected one datastore lookup, got %d", repo.getCalls)
	}

	// Second read stays in memory.
	if _, err := svc.Get(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.getCalls != 1 {
		t.Errorf("expected cache hit, repo saw %d gets", repo.getCalls)
	}
}

func TestFlagService_GetMissing(t *testing.T) {
	svc := newFlagService(newMockFlagRepo())

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFlagService_ListBypassesCache(t *testing.T) {
	repo := newMockFlagRepo()
	repo.flags["beta"] = model.FeatureFlag{Key: "beta", Enabled: true}
	svc := newFlagService(repo)

	flags, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}

	// The list refreshed the cache; the point lookup now hits it.
	if _, err := svc.Get(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.getCalls != 0 {
		t.Errorf("expected cache hit after list refresh, repo saw %d gets", repo.getCalls)
	}
}

func TestFlagService_UpdateWhitelistAndCacheCoherence(t *testing.T) {
	repo := newMockFlagRepo()
	repo.flags["beta"] = model.FeatureFlag{Key: "beta", Name: "Beta", Description: "d"}
	svc := newFlagService(repo)

	// Warm the cache with the stale value.
	if _, err := svc.Get(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(context.Background(), "beta", map[string]any{
		"enabled": true,
		"key":     "hijacked", // immutable, must be dropped
		"id":      99,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Enabled {
		t.Error("expected enabled=true after update")
	}
	if updated.Key != "beta" {
		t.Errorf("key must be immutable, got %s", updated.Key)
	}
	if updated.Name != "Beta" || updated.Description != "d" {
		t.Error("unspecified fields must keep their prior values")
	}

	// The writer's own next read sees the new value without a datastore trip.
	calls := repo.getCalls
	got, err := svc.Get(context.Background(), "beta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Enabled {
		t.Error("stale read after update")
	}
	if repo.getCalls != calls {
		t.Error("expected the post-update read to come from cache")
	}
}

func TestFlagService_DeleteDropsCacheEntry(t *testing.T) {
	repo := newMockFlagRepo()
	repo.flags["beta"] = model.FeatureFlag{Key: "beta"}
	svc := newFlagService(repo)

	if _, err := svc.Get(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "beta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Get(context.Background(), "beta")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFlagService_SeedFlagsIdempotent(t *testing.T) {
	repo := newMockFlagRepo()
	svc := newFlagService(repo)

	created, skipped := svc.SeedFlags(context.Background())
	if created != len(SampleFlags) || skipped != 0 {
		t.Errorf("first run: expected %d created, got created=%d skipped=%d", len(SampleFlags), created, skipped)
	}

	created, skipped = svc.SeedFlags(context.Background())
	if created != 0 || skipped != len(SampleFlags) {
		t.Errorf("second run: expected %d skipped, got created=%d skipped=%d", len(SampleFlags), created, skipped)
	}
}
