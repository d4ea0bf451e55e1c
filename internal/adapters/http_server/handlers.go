package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_analyzer/internal/domain"
)

const maxSubmitBytes = 1 << 20

type ReviewQuerier interface {
	HandleQuery(ctx context.Context, c domain.Criteria) ([]domain.ScoredReview, error)
}

type ReviewSubmitter interface {
	HandleSubmit(ctx context.Context, body, location string) (domain.ScoredReview, error)
}

type Handlers struct {
	Q           ReviewQuerier
	S           ReviewSubmitter
	SubmitLimit *rate.Limiter // nil disables POST rate limiting
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sentimentJSON struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// reviewJSON keeps the flat neg/neu/pos/compound copies existing clients read.
type reviewJSON struct {
	ReviewID   string        `json:"ReviewId"`
	ReviewBody string        `json:"ReviewBody"`
	Location   string        `json:"Location"`
	Timestamp  string        `json:"Timestamp"`
	Sentiment  sentimentJSON `json:"sentiment"`
	Neg        float64       `json:"neg"`
	Neu        float64       `json:"neu"`
	Pos        float64       `json:"pos"`
	Compound   float64       `json:"compound"`
}

func toJSON(r domain.ScoredReview) reviewJSON {
	s := r.Sentiment
	return reviewJSON{
		ReviewID:   r.ID,
		ReviewBody: r.Body,
		Location:   r.Location,
		Timestamp:  r.Timestamp,
		Sentiment:  sentimentJSON{Neg: s.Negative, Neu: s.Neutral, Pos: s.Positive, Compound: s.Compound},
		Neg:        s.Negative,
		Neu:        s.Neutral,
		Pos:        s.Positive,
		Compound:   s.Compound,
	}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	for _, p := range []string{"/", "/v1/reviews"} {
		s.mux.Get(p, h.listReviews)
		s.mux.With(RateLimit(h.SubmitLimit)).Post(p, h.submitReview)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeInputError uses the {"error": "..."} body submit clients expect.
func writeInputError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("write input error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := domain.Criteria{
		Location:  q.Get("location"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	reviews, err := h.Q.HandleQuery(r.Context(), c)
	if err != nil {
		// only a cancelled request gets here
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "request cancelled")
		return
	}

	out := make([]reviewJSON, len(reviews))
	for i, rv := range reviews {
		out[i] = toJSON(rv)
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)

	body, location, err := readSubmission(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed body", err.Error())
		return
	}

	created, err := h.S.HandleSubmit(r.Context(), body, location)
	switch {
	case errors.Is(err, domain.ErrMissingField):
		writeInputError(w, "ReviewBody and Location are required")
		return
	case errors.Is(err, domain.ErrInvalidLocation):
		writeInputError(w, "Invalid location")
		return
	case err != nil:
		log.Error().Err(err).Msg("submit failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	b, err := json.Marshal(toJSON(created))
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal created review")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("failed to write submitReview body")
	}
}

// readSubmission accepts form-encoded fields, or a JSON object with the same keys.
func readSubmission(r *http.Request) (body, location string, err error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var in struct {
			ReviewBody string `json:"ReviewBody"`
			Location   string `json:"Location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return "", "", err
		}
		return in.ReviewBody, in.Location, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	return r.PostForm.Get("ReviewBody"), r.PostForm.Get("Location"), nil
}
