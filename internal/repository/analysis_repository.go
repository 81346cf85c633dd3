package repository

import (
	"context"
	"errors"
	"time"

	"skill-gap/internal/domain/analysis"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// DefaultAnalysisTTL applies when a caller passes a non-positive ttl.
const DefaultAnalysisTTL = 30 * time.Minute

type AnalysisRepository interface {
	Save(ctx context.Context, a analysis.Analysis, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// JSONCache is the subset of the Redis wrapper the analysis store needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}

func analysisKey(id uuid.UUID) string {
	return "analyses:" + id.String()
}

type RedisAnalysisRepository struct {
	cache JSONCache
}

func NewRedisAnalysisRepository(cache JSONCache) *RedisAnalysisRepository {
	return &RedisAnalysisRepository{cache: cache}
}

func (r *RedisAnalysisRepository) Save(ctx context.Context, a analysis.Analysis, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}
	return r.cache.SetJSON(ctx, analysisKey(a.ID), a, ttl)
}

func (r *RedisAnalysisRepository) Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	var a analysis.Analysis
	ok, err := r.cache.GetJSON(ctx, analysisKey(id), &a)
	if err != nil {
		return analysis.Analysis{}, err
	}
	if !ok {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	return a, nil
}

func (r *RedisAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existed, err := r.cache.Delete(ctx, analysisKey(id))
	if err != nil {
		return err
	}
	if !existed {
		return ErrAnalysisNotFound
	}
	return nil
}

// MemoryAnalysisRepository keeps analyses in process. It serves single
// instance deployments and runs where Redis is not reachable.
type MemoryAnalysisRepository struct {
	items *gocache.Cache
}

func NewMemoryAnalysisRepository(defaultTTL time.Duration) *MemoryAnalysisRepository {
	if defaultTTL <= 0 {
		defaultTTL = DefaultAnalysisTTL
	}
	return &MemoryAnalysisRepository{items: gocache.New(defaultTTL, defaultTTL/2)}
}

func (r *MemoryAnalysisRepository) Save(_ context.Context, a analysis.Analysis, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	r.items.Set(analysisKey(a.ID), a, ttl)
	return nil
}

func (r *MemoryAnalysisRepository) Get(_ context.Context, id uuid.UUID) (analysis.Analysis, error) {
	v, ok := r.items.Get(analysisKey(id))
	if !ok {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	a, ok := v.(analysis.Analysis)
	if !ok {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	return a, nil
}

func (r *MemoryAnalysisRepository) Delete(_ context.Context, id uuid.UUID) error {
	key := analysisKey(id)
	if _, ok := r.items.Get(key); !ok {
		return ErrAnalysisNotFound
	}
	r.items.Delete(key)
	return nil
}

func (r *MemoryAnalysisRepository) Count() int {
	return r.items.ItemCount()
}
