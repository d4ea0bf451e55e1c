package domain

// TimestampLayout is the canonical review timestamp. It is fixed-width and
// zero-padded, so string order equals chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

type Sentiment struct {
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64 // [-1,1], not part of the neg+neu+pos sum
}

// ScoredReview is immutable once it enters the store.
type ScoredReview struct {
	ID        string
	Body      string
	Location  string
	Timestamp string // TimestampLayout
	Sentiment Sentiment
}

// RawReview is a dataset row after mapping, before scoring.
type RawReview struct {
	ID        string
	Body      string
	Location  string
	Timestamp string
}

// Criteria filters a query. Empty fields are unset.
type Criteria struct {
	Location  string
	StartDate string // inclusive, compared as strings
	EndDate   string // inclusive, compared as strings
}

