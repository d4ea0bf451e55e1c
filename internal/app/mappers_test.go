package app

import (
	"testing"
	"time"
)

func TestCanonicalTimestamp(t *testing.T) {
	cases := []struct {
		in      any
		want    string
		wantErr bool
	}{
		{"2024-01-01 00:00:00", "2024-01-01 00:00:00", false},
		{"  2024-01-01 09:05:03 ", "2024-01-01 09:05:03", false},
		{"2024-06-30T21:15:00+02:00", "2024-06-30 21:15:00", false},
		{"2024-06-30T21:15:00", "2024-06-30 21:15:00", false},
		{"2024-06-30 21:15", "2024-06-30 21:15:00", false},
		{"2024-06-30", "2024-06-30 00:00:00", false},
		{time.Date(2023, 11, 2, 3, 4, 5, 0, time.UTC), "2023-11-02 03:04:05", false},
		{"30/06/2024", "", true},
		{"", "", true},
		{nil, "", true},
		{true, "", true},
	}
	for _, tc := range cases {
		got, err := canonicalTimestamp(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%v: expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%v: got %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestMapRawReview_Aliases(t *testing.T) {
	row := map[string]any{
		"review_id":  "x-1",
		"comment":    "Solid tacos",
		"location":   map[string]any{"name": "Oceanside, California"},
		"place":      "El Paso, Texas",
		"created_at": "2024-04-04 04:04:04",
	}
	got, err := mapRawReview(row)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.ID != "x-1" || got.Body != "Solid tacos" || got.Timestamp != "2024-04-04 04:04:04" {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	// a map under "location" is skipped, so the flat "place" alias wins
	if got.Location != "El Paso, Texas" {
		t.Fatalf("location: got %q", got.Location)
	}
}

func TestMapRawReview_NestedLocation(t *testing.T) {
	got, err := mapRawReview(map[string]any{
		"body":      "ok",
		"timestamp": "2024-01-01",
		"location":  map[string]any{"name": "Oceanside, California"},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Location != "Oceanside, California" {
		t.Fatalf("location: got %q", got.Location)
	}
}

func TestMapRawReview_Rejects(t *testing.T) {
	if _, err := mapRawReview(map[string]any{"ReviewBody": "  ", "Timestamp": "2024-01-01"}); err != errNoBody {
		t.Fatalf("blank body: got %v", err)
	}
	if _, err := mapRawReview(map[string]any{"ReviewBody": "fine"}); err != errNoTimestamp {
		t.Fatalf("no timestamp: got %v", err)
	}
}
