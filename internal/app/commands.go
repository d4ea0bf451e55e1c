package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

// IntakeService is the only path that creates reviews after startup.
type IntakeService struct {
	scorer domain.Scorer
	store  domain.ReviewStore
	clock  clockwork.Clock
	newID  func() string
}

func NewIntakeService(sc domain.Scorer, st domain.ReviewStore, clock clockwork.Clock) *IntakeService {
	return &IntakeService{scorer: sc, store: st, clock: clock, newID: uuid.NewString}
}

// HandleSubmit validates, scores and stores one review. Validation failures
// come back as *domain.ValidationError.
func (s *IntakeService) HandleSubmit(ctx context.Context, body, location string) (domain.ScoredReview, error) {
	if err := validateSubmission(body, location); err != nil {
		observability.ObserveSubmit(string(err.Kind))
		log.Debug().Str("kind", string(err.Kind)).Str("location", location).Msg("submission rejected")
		return domain.ScoredReview{}, err
	}

	r := domain.ScoredReview{
		ID:        s.newID(),
		Body:      body,
		Location:  location,
		Timestamp: s.clock.Now().Format(domain.TimestampLayout),
		Sentiment: s.scorer.Score(body),
	}
	s.store.Append(r)

	observability.ObserveSubmit("created")
	log.Info().Str("id", r.ID).Str("location", r.Location).Float64("compound", r.Sentiment.Compound).Msg("review created")
	return r, nil
}

func validateSubmission(body, location string) *domain.ValidationError {
	switch {
	case body == "" && location == "":
		return &domain.ValidationError{Kind: domain.MissingField, Field: "ReviewBody,Location", Detail: "ReviewBody and Location are required"}
	case body == "":
		return &domain.ValidationError{Kind: domain.MissingField, Field: "ReviewBody", Detail: "ReviewBody and Location are required"}
	case location == "":
		return &domain.ValidationError{Kind: domain.MissingField, Field: "Location", Detail: "ReviewBody and Location are required"}
	case !domain.IsValidLocation(location):
		return &domain.ValidationError{Kind: domain.InvalidLocation, Field: "Location", Detail: fmt.Sprintf("%q is not a valid location", location)}
	}
	return nil
}

/********** startup dataset load **********/

type LoadStats struct {
	Loaded   int
	Rejected int
}

type LoadService struct {
	scorer  domain.Scorer
	store   domain.ReviewStore
	workers int
	newID   func() string
}

func NewLoadService(sc domain.Scorer, st domain.ReviewStore, workers int) *LoadService {
	if workers <= 0 {
		workers = 1
	}
	return &LoadService{scorer: sc, store: st, workers: workers, newID: uuid.NewString}
}

// Load pulls every row from src, scores the ones that map cleanly and appends
// them to the store in dataset order with a single AppendAll.
func (s *LoadService) Load(ctx context.Context, name string, src domain.DatasetSource) (LoadStats, error) {
	rows, err := src.Records(ctx)
	if err != nil {
		return LoadStats{}, fmt.Errorf("load %s: %w", name, err)
	}

	raws, rejected := MapRecords(name, rows)
	stats := LoadStats{Rejected: rejected}

	seen := make(map[string]struct{}, len(raws))
	for i := range raws {
		if _, dup := seen[raws[i].ID]; dup || raws[i].ID == "" {
			raws[i].ID = s.newID()
		}
		seen[raws[i].ID] = struct{}{}
	}

	scored := make([]domain.ScoredReview, len(raws))
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i := range raws {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return LoadStats{}, fmt.Errorf("load %s: %w", name, err)
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)

			rv := raws[i]
			scored[i] = domain.ScoredReview{
				ID:        rv.ID,
				Body:      rv.Body,
				Location:  rv.Location,
				Timestamp: rv.Timestamp,
				Sentiment: s.scorer.Score(rv.Body),
			}
		}(i)
	}
	wg.Wait()

	s.store.AppendAll(scored)
	stats.Loaded = len(scored)

	observability.ObserveLoad(name, stats.Loaded, stats.Rejected)
	log.Info().Str("source", name).Int("loaded", stats.Loaded).Int("rejected", stats.Rejected).Msg("dataset loaded")
	return stats, nil
}
