package service

import (
	"context"
	"errors"

	"multizone/internal/metrics"
	"multizone/internal/model"
	"multizone/internal/repository"
	"multizone/pkg/logger"

	"go.uber.org/zap"
)

// mutableFlagColumns is the PATCH whitelist. Key, ID and timestamps never
// change through partial update.
var mutableFlagColumns = map[string]struct{}{
	"name":        {},
	"description": {},
	"enabled":     {},
}

// FlagService owns the read-through/write-through policy between the flag
// cache and the datastore. Point lookups prefer cache speed over freshness;
// list reads always hit the datastore and refresh the cache.
type FlagService struct {
	repo     repository.FlagInterface
	cache    *FlagCache
	observer metrics.Observer
}

func NewFlagService(repo repository.FlagInterface, cache *FlagCache, observer metrics.Observer) *FlagService {
	return &FlagService{
		repo:     repo,
		cache:    cache,
		observer: observer,
	}
}

// Create inserts a new flag. Flags always start disabled regardless of any
// enabled value supplied by the caller; the cache is populated only after the
// insert commits.
func (s *FlagService) Create(ctx context.Context, key, name, description string) (*model.FeatureFlag, error) {
	flag := &model.FeatureFlag{
		Key:         key,
		Name:        name,
		Description: description,
		Enabled:     false,
	}
	if err := s.repo.Create(ctx, flag); err != nil {
		return nil, err
	}
	s.cache.Put(*flag)
	return flag, nil
}

// List bypasses the cache to guarantee freshness for bulk reads, then
// refreshes the cache entry for every returned flag.
func (s *FlagService) List(ctx context.Context) ([]model.FeatureFlag, error) {
	flags, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, flag := range flags {
		s.cache.Put(flag)
	}
	return flags, nil
}

// Get checks the cache first; on a miss it queries the datastore and
// populates the cache before returning.
func (s *FlagService) Get(ctx context.Context, key string) (*model.FeatureFlag, error) {
	if cached, ok := s.cache.Get(key); ok {
		s.observer.FlagCacheHit()
		return &cached, nil
	}
	s.observer.FlagCacheMiss()

	flag, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Put(*flag)
	return flag, nil
}

// Update applies the mutable subset of the supplied fields, then refreshes
// the cache with the committed row. Unknown fields are ignored.
func (s *FlagService) Update(ctx context.Context, key string, fields map[string]any) (*model.FeatureFlag, error) {
	updates := make(map[string]any, len(fields))
	for column, value := range fields {
		if _, ok := mutableFlagColumns[column]; ok {
			updates[column] = value
		}
	}

	flag, err := s.repo.UpdateByKey(ctx, key, updates)
	if err != nil {
		return nil, err
	}
	s.cache.Put(*flag)
	return flag, nil
}

// Delete removes the flag from the datastore, then drops the cache entry.
func (s *FlagService) Delete(ctx context.Context, key string) error {
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.cache.Remove(key)
	return nil
}

// SampleFlags is the fixed set installed by the seed job. All start disabled.
var SampleFlags = []model.FeatureFlag{
	{Key: "show_welcome_banner", Name: "Show Welcome Banner", Description: "Displays a welcome banner on the main page"},
	{Key: "new_user_dashboard", Name: "New User Dashboard", Description: "Enable the redesigned user dashboard interface"},
	{Key: "beta_features", Name: "Beta Features", Description: "Enable access to beta features for testing"},
}

// SeedFlags installs the sample flags with find-or-create semantics: insert
// first, and treat a duplicate-key loss as the existing record. Returns
// created and skipped counts.
func (s *FlagService) SeedFlags(ctx context.Context) (created, skipped int) {
	for _, sample := range SampleFlags {
		flag := sample
		err := s.repo.Create(ctx, &flag)
		if err == nil {
			s.cache.Put(flag)
			created++
			continue
		}
		if errors.Is(err, repository.ErrDuplicate) {
			skipped++
			continue
		}
		logger.Warn("flag seed insert failed", zap.String("key", sample.Key), zap.Error(err))
	}
	return created, skipped
}
