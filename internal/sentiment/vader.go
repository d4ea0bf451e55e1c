// Package sentiment scores review text with the VADER lexicon.
package sentiment

import (
	"errors"
	"math"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

// Neutral is returned for empty text and for anything the lexicon cannot score.
var Neutral = domain.Sentiment{Neutral: 1}

type analyzer interface {
	PolarityScores(text string) govader.Sentiment
}

type Vader struct{ a analyzer }

// New loads the lexicon and checks it can tell a positive sentence from a
// negative one. An error here means the service must not start.
func New() (*Vader, error) {
	v := &Vader{a: govader.NewSentimentIntensityAnalyzer()}
	if err := v.probe(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vader) probe() error {
	good, bad := v.Score("good"), v.Score("awful")
	if good.Compound <= 0 || bad.Compound >= 0 {
		return errors.New("sentiment: lexicon unavailable or empty")
	}
	return nil
}

func (v *Vader) Score(text string) (out domain.Sentiment) {
	if strings.TrimSpace(text) == "" {
		return Neutral
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("len", len(text)).Msg("sentiment scoring panicked")
			out = Neutral
		}
	}()
	s := v.a.PolarityScores(text)
	return normalize(s.Negative, s.Neutral, s.Positive, s.Compound)
}

// normalize enforces the score contract: neg/neu/pos in [0,1] summing to 1,
// compound in [-1,1]. The lexicon rounds to three decimals, so its triple can
// be off by a few thousandths.
func normalize(neg, neu, pos, compound float64) domain.Sentiment {
	for _, f := range []float64{neg, neu, pos, compound} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Neutral
		}
	}
	neg, neu, pos = clamp(neg, 0, 1), clamp(neu, 0, 1), clamp(pos, 0, 1)
	sum := neg + neu + pos
	if sum == 0 {
		return domain.Sentiment{Neutral: 1, Compound: clamp(compound, -1, 1)}
	}
	neg, pos = neg/sum, pos/sum
	return domain.Sentiment{
		Negative: neg,
		Neutral:  clamp(1-neg-pos, 0, 1),
		Positive: pos,
		Compound: clamp(compound, -1, 1),
	}
}

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
