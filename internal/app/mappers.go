package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":        {"ReviewId", "review_id", "reviewId", "id"},
	"body":      {"ReviewBody", "review_body", "body", "text", "review", "comment", "content"},
	"location":  {"Location", "location", "city", "place", "location.name"},
	"timestamp": {"Timestamp", "timestamp", "created_at", "createdAt", "date", "time"},
}

// accepted dataset timestamp layouts, canonical first
var timestampLayouts = []string{
	domain.TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	errNoBody      = errors.New("empty review body")
	errNoTimestamp = errors.New("missing timestamp")
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstAlias: first non-empty scalar for a named alias set; maps and slices are skipped.
func firstAlias(m map[string]any, key string) any {
	for _, p := range reviewAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64, int, int64, time.Time:
			return v
		case []byte:
			if len(v) > 0 {
				return v
			}
		}
	}
	return nil
}

// stringish renders strings and numbers; anything else is "".
func stringish(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []byte:
		return string(t)
	}
	return ""
}

// canonicalTimestamp brings a dataset timestamp into domain.TimestampLayout.
// Wall-clock fields are kept as written; no zone conversion happens.
func canonicalTimestamp(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", errNoTimestamp
	case time.Time:
		return t.Format(domain.TimestampLayout), nil
	}
	s := strings.TrimSpace(stringish(v))
	if s == "" {
		return "", errNoTimestamp
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format(domain.TimestampLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognised timestamp %q", s)
}

/********** raw review mapper **********/

// mapRawReview adapts a loosely-typed dataset row. Location is copied as-is:
// dataset rows are trusted and never checked against domain.ValidLocations.
func mapRawReview(row map[string]any) (domain.RawReview, error) {
	var rv domain.RawReview

	rv.Body = stringish(firstAlias(row, "body"))
	if strings.TrimSpace(rv.Body) == "" {
		return domain.RawReview{}, errNoBody
	}

	ts, err := canonicalTimestamp(firstAlias(row, "timestamp"))
	if err != nil {
		return domain.RawReview{}, err
	}
	rv.Timestamp = ts

	rv.Location = stringish(firstAlias(row, "location"))
	rv.ID = strings.TrimSpace(stringish(firstAlias(row, "id")))
	return rv, nil
}

// MapRecords maps every row it can and counts the rest as rejected. Ids are
// passed through untouched, including empty and repeated ones.
func MapRecords(source string, rows []map[string]any) ([]domain.RawReview, int) {
	out := make([]domain.RawReview, 0, len(rows))
	rejected := 0
	for i, row := range rows {
		rv, err := mapRawReview(row)
		if err != nil {
			rejected++
			log.Warn().Str("source", source).Int("row", i).Err(err).Msg("dataset row rejected")
			continue
		}
		out = append(out, rv)
	}
	return out, rejected
}
