package domain

import "context"

// Scorer is total: every string gets a result, never an error.
type Scorer interface {
	Score(text string) Sentiment
}

type ReviewStore interface {
	// ID names this store instance. Two stores never share an ID, so
	// (ID, Len) identifies a snapshot even across processes.
	ID() string
	Append(r ScoredReview)
	AppendAll(rs []ScoredReview)
	Snapshot() []ScoredReview
	Len() int
}

// DatasetSource yields loosely-typed rows for the one-time startup load.
type DatasetSource interface {
	Records(ctx context.Context) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
