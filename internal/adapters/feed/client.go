// Package feed fetches the initial review dataset from a remote JSON endpoint.
package feed

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New builds a client for base. key is optional and sent as X-API-Key.
func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("feed URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Records returns the feed's review objects. Both a bare JSON array and an
// object wrapping the array under "reviews", "data" or "items" are accepted.
func (c *Client) Records(ctx context.Context) ([]map[string]any, error) {
	candidates := []string{
		c.base,              // preferred: the URL points at the array
		c.base + "/reviews", // service root
	}
	var raw json.RawMessage
	if err := c.getFirst(ctx, candidates, &raw); err != nil {
		return nil, err
	}
	return decodeRecords(raw)
}

func decodeRecords(raw json.RawMessage) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("feed: unexpected payload: %w", err)
	}
	for _, k := range []string{"reviews", "data", "items"} {
		if inner, ok := wrapped[k]; ok {
			if err := json.Unmarshal(inner, &arr); err != nil {
				return nil, fmt.Errorf("feed: %s: %w", k, err)
			}
			return arr, nil
		}
	}
	return nil, errors.New("feed: payload has no review array")
}

var (
	ErrNotFound     = errors.New("feed: not found")
	ErrUnauthorized = errors.New("feed: unauthorized")
	ErrForbidden    = errors.New("feed: forbidden")
)

const (
	maxAttempts = 4
	maxPayload  = 64 << 20
)

func (c *Client) getFirst(ctx context.Context, urls []string, out any) error {
	err := errors.New("feed: no candidate URL")
	for _, u := range urls {
		if err = c.get(ctx, u, out); !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return err
}

// transient is a failed attempt worth repeating. wait is the server's
// Retry-After, zero when it gave none.
type transient struct {
	err  error
	wait time.Duration
}

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// get fetches url and decodes the JSON body into out. 429, 5xx gateway
// errors and network failures are retried up to maxAttempts times.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var body []byte
		if body, err = c.fetch(ctx, url); err == nil {
			return json.Unmarshal(body, out)
		}
		var tr *transient
		if !errors.As(err, &tr) {
			return err
		}
		log.Warn().Err(err).Str("err_type", observability.LabelErr(tr.err)).Str("url", url).
			Int("attempt", attempt+1).Msg("feed request failed")
		if attempt == maxAttempts-1 {
			break
		}
		wait := tr.wait
		if wait == 0 {
			wait = backoff(attempt)
		}
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return err
}

// fetch runs one GET and classifies the outcome.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-analyzer/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("feed", "records", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transient{err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("feed", "records", resp.StatusCode, time.Since(start))

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	case code == http.StatusNotFound:
		return nil, ErrNotFound
	case code == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case code == http.StatusForbidden:
		return nil, ErrForbidden
	case code == http.StatusTooManyRequests, code >= 500 && code != http.StatusNotImplemented:
		return nil, &transient{err: fmt.Errorf("feed: remote %d", code), wait: retryAfter(resp.Header.Get("Retry-After"))}
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed: bad status %d: %s", code, strings.TrimSpace(string(b)))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter reads a Retry-After value in seconds or as an HTTP date.
func retryAfter(h string) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}

// backoff doubles from 200ms with up to 50% jitter.
func backoff(attempt int) time.Duration {
	base := (200 * time.Millisecond) << attempt
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(float64(base)*float64(b[0])/510)
}
