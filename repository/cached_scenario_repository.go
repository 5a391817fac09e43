package repository

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"roicalc/models"
	"roicalc/service"
)

// CachedScenarioRepository adds a read-through cache in front of a ScenarioRepository.
//
// Scenarios never change after creation, so an entry stays valid until the
// scenario is deleted. Cache failures degrade to direct reads.
type CachedScenarioRepository struct {
	next  service.ScenarioRepository
	cache Cache
	ttl   time.Duration
}

// NewCachedScenarioRepository wraps next with the given cache
func NewCachedScenarioRepository(next service.ScenarioRepository, cache Cache, ttl time.Duration) *CachedScenarioRepository {
	return &CachedScenarioRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func scenarioCacheKey(id int64) string {
	return fmt.Sprintf("scenario:%d", id)
}

// Create stores the scenario and primes the cache with it
func (r *CachedScenarioRepository) Create(ctx context.Context, name string, inputs models.MetricsInput, results models.ResultsRecord) (*models.Scenario, error) {
	scenario, err := r.next.Create(ctx, name, inputs, results)
	if err != nil {
		return nil, err
	}
	r.store(ctx, scenario)
	return scenario, nil
}

// List is always served from the underlying repository
func (r *CachedScenarioRepository) List(ctx context.Context) ([]*models.ScenarioSummary, error) {
	return r.next.List(ctx)
}

// GetByID serves the scenario from cache when present
func (r *CachedScenarioRepository) GetByID(ctx context.Context, id int64) (*models.Scenario, error) {
	key := scenarioCacheKey(id)
	logger := log.WithField("key", key)

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("Scenario cache read failed")
	}
	if ok {
		var scenario models.Scenario
		_, decodeErr := models.UnmarshalVersioned([]byte(cached), &scenario)
		if decodeErr == nil {
			logger.Debug("Scenario cache hit")
			return &scenario, nil
		}
		logger.WithError(decodeErr).Warn("Discarding undecodable scenario cache entry")
		r.evict(ctx, id)
	}

	scenario, err := r.next.GetByID(ctx, id)
	if err != nil || scenario == nil {
		return scenario, err
	}
	r.store(ctx, scenario)
	return scenario, nil
}

// Delete removes the scenario and evicts it from the cache
func (r *CachedScenarioRepository) Delete(ctx context.Context, id int64) (int64, error) {
	changes, err := r.next.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	r.evict(ctx, id)
	return changes, nil
}

func (r *CachedScenarioRepository) store(ctx context.Context, scenario *models.Scenario) {
	payload, err := models.MarshalVersioned(scenario)
	if err != nil {
		log.WithError(err).WithField("scenarioId", scenario.ID).Warn("Failed to encode scenario for cache")
		return
	}
	if err := r.cache.Set(ctx, scenarioCacheKey(scenario.ID), string(payload), r.ttl); err != nil {
		log.WithError(err).WithField("scenarioId", scenario.ID).Warn("Scenario cache write failed")
	}
}

func (r *CachedScenarioRepository) evict(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, scenarioCacheKey(id)); err != nil {
		log.WithError(err).WithField("scenarioId", id).Warn("Scenario cache eviction failed")
	}
}
