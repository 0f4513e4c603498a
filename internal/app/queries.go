package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ElmaP103/buenro/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPageLimit = 100
)

type QueryService struct {
	repo     domain.PropertyRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PropertyRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// List returns one page of properties matching f plus the unpaginated match
// count. Store errors surface as a single generic query error.
func (s *QueryService) List(ctx context.Context, f domain.PropertyFilter, page, limit int) (domain.PropertyPage, error) {
	skip, limit := Paginate(page, limit)

	key := cacheKey(f, skip, limit)
	var out domain.PropertyPage
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	out, err := s.repo.FindAll(ctx, f, skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("property query failed")
		return domain.PropertyPage{}, domain.ErrQueryFailed
	}
	if out.Data == nil {
		out.Data = []domain.Property{}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Paginate turns 1-based page/limit into a skip offset, defaulting and
// clamping out-of-range values. The limit cap bounds per-query result size.
func Paginate(page, limit int) (skip, capped int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return (page - 1) * limit, limit
}

func cacheKey(f domain.PropertyFilter, skip, limit int) string {
	b, _ := json.Marshal(struct {
		F           domain.PropertyFilter
		Skip, Limit int
	}{f, skip, limit})
	sum := sha1.Sum(b)
	return "properties:" + hex.EncodeToString(sum[:])
}
