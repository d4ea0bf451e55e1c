package app

import (
	"cmp"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

// Query filters snapshot by c and orders the result by compound sentiment,
// most positive first. Equal compounds keep their snapshot order. The result
// is a fresh slice; snapshot is never modified.
func Query(snapshot []domain.ScoredReview, c domain.Criteria) []domain.ScoredReview {
	out := make([]domain.ScoredReview, 0, len(snapshot))
	for _, r := range snapshot {
		if c.Location != "" && r.Location != c.Location {
			continue
		}
		if c.StartDate != "" && r.Timestamp < c.StartDate {
			continue
		}
		if c.EndDate != "" && r.Timestamp > c.EndDate {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b domain.ScoredReview) int {
		return cmp.Compare(b.Sentiment.Compound, a.Sentiment.Compound)
	})
	return out
}

type QueryService struct {
	store    domain.ReviewStore
	cache    domain.Cache // optional
	cacheTTL time.Duration
}

func NewQueryService(st domain.ReviewStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: st, cache: c, cacheTTL: ttl}
}

// HandleQuery backs the read endpoint. It only fails when ctx is done.
func (s *QueryService) HandleQuery(ctx context.Context, c domain.Criteria) ([]domain.ScoredReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	if s.cache == nil {
		return Query(snap, c), nil
	}

	// the store only grows, so its id and length pin the exact snapshot a result came from
	key := cacheKey(s.store.ID(), len(snap), c)
	var out []domain.ScoredReview
	if ok, err := s.cache.Get(ctx, key, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("query cache get failed")
	} else if ok {
		if out == nil {
			out = []domain.ScoredReview{}
		}
		return out, nil
	}

	out = Query(snap, c)
	if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("query cache set failed")
	}
	return out, nil
}

func cacheKey(storeID string, version int, c domain.Criteria) string {
	sum := sha1.Sum([]byte(c.Location + "\x00" + c.StartDate + "\x00" + c.EndDate))
	return fmt.Sprintf("reviews:%s:v%d:%s", storeID, version, hex.EncodeToString(sum[:]))
}
