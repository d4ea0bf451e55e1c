package sentiment

import (
	"math"
	"strings"
	"testing"

	"github.com/jonreiter/govader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/domain"
)

type panicky struct{}

func (panicky) PolarityScores(string) govader.Sentiment { panic("boom") }

type fixed govader.Sentiment

func (f fixed) PolarityScores(string) govader.Sentiment { return govader.Sentiment(f) }

func requireBounded(t *testing.T, s domain.Sentiment) {
	t.Helper()
	for _, f := range []float64{s.Negative, s.Neutral, s.Positive, s.Compound} {
		require.False(t, math.IsNaN(f) || math.IsInf(f, 0), "non-finite score %+v", s)
	}
	assert.GreaterOrEqual(t, s.Negative, 0.0)
	assert.LessOrEqual(t, s.Negative, 1.0)
	assert.GreaterOrEqual(t, s.Neutral, 0.0)
	assert.LessOrEqual(t, s.Neutral, 1.0)
	assert.GreaterOrEqual(t, s.Positive, 0.0)
	assert.LessOrEqual(t, s.Positive, 1.0)
	assert.InDelta(t, 1.0, s.Negative+s.Neutral+s.Positive, 1e-6)
	assert.GreaterOrEqual(t, s.Compound, -1.0)
	assert.LessOrEqual(t, s.Compound, 1.0)
}

func TestScore_BoundsForAnyText(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	inputs := []string{
		"",
		"   \t\n",
		"great!",
		"awful service",
		"The food was not bad at all, but the wait was TERRIBLE!!!",
		"très bien, merci 😀",
		"日本語のレビュー",
		"\x00\xff\xfe",
		strings.Repeat("amazing horrible okay ", 5000),
	}
	for _, in := range inputs {
		requireBounded(t, v.Score(in))
	}
}

func TestScore_EmptyIsNeutral(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	assert.Equal(t, Neutral, v.Score(""))
	assert.Equal(t, Neutral, v.Score("  "))
}

func TestScore_Polarity(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	assert.Greater(t, v.Score("great!").Compound, 0.0)
	assert.Less(t, v.Score("awful service").Compound, 0.0)
}

func TestScore_Deterministic(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	text := "Friendly staff, but the room was dirty."
	first := v.Score(text)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, v.Score(text))
	}
}

func TestNew_ProbePasses(t *testing.T) {
	_, err := New()
	require.NoError(t, err)
}

func TestProbe_RejectsFlatLexicon(t *testing.T) {
	v := &Vader{a: fixed{Neutral: 1}}
	require.Error(t, v.probe())
	require.Error(t, (&Vader{a: panicky{}}).probe())
}

func TestScore_RecoversFromAnalyzerPanic(t *testing.T) {
	v := &Vader{a: panicky{}}
	assert.Equal(t, Neutral, v.Score("anything"))
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   govader.Sentiment
	}{
		{"rounded over one", govader.Sentiment{Negative: 0.334, Neutral: 0.334, Positive: 0.334, Compound: 0.1}},
		{"rounded under one", govader.Sentiment{Negative: 0.2, Neutral: 0.5, Positive: 0.299, Compound: 0.2}},
		{"all zero", govader.Sentiment{}},
		{"out of range", govader.Sentiment{Negative: -0.1, Neutral: 1.2, Positive: 0.3, Compound: 3}},
		{"nan", govader.Sentiment{Negative: math.NaN(), Neutral: 1}},
		{"inf compound", govader.Sentiment{Neutral: 1, Compound: math.Inf(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &Vader{a: fixed(tc.in)}
			requireBounded(t, v.Score("x"))
		})
	}
}
