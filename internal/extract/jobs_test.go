package extract

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestIndeedListing_IdentifierVariants(t *testing.T) {
	tests := []struct {
		name   string
		item   map[string]any
		wantID string
	}{
		{"jobkey", map[string]any{"jobkey": "abc"}, "indeed:abc"},
		{"id", map[string]any{"id": "123"}, "indeed:123"},
		{"job_id", map[string]any{"job_id": "x9"}, "indeed:x9"},
		{"jobKey camel", map[string]any{"jobKey": "k1"}, "indeed:k1"},
		{"numeric id", map[string]any{"id": float64(42)}, "indeed:42"},
		{"first present wins", map[string]any{"jobkey": "a", "id": "b"}, "indeed:a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndeedListing(tt.item, "ZH")
			if got == nil {
				t.Fatalf("IndeedListing(%v) = nil, want listing", tt.item)
			}
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestIndeedListing_NoIdentifier(t *testing.T) {
	tests := []struct {
		name string
		item map[string]any
	}{
		{"nil record", nil},
		{"empty record", map[string]any{}},
		{"only title", map[string]any{"title": "Developer"}},
		{"blank id", map[string]any{"id": "  "}},
		{"non-string id", map[string]any{"id": []any{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndeedListing(tt.item, ""); got != nil {
				t.Errorf("IndeedListing(%v) = %+v, want nil", tt.item, got)
			}
		})
	}
}

func TestIndeedListing_Fields(t *testing.T) {
	item := map[string]any{
		"jobkey":          "j1",
		"title":           "Pflegefachperson",
		"employer_name":   "Spital Zürich",
		"city":            "Zürich",
		"job_url":         "https://example.com/j1",
		"date":            "2024-03-01T10:00:00Z",
		"employment_type": "fulltime",
		"salary_info":     "CHF 80'000",
		"snippet":         "Care role",
	}

	got := IndeedListing(item, "ZH")
	if got == nil {
		t.Fatal("IndeedListing returned nil")
	}
	if got.Company != "Spital Zürich" {
		t.Errorf("Company = %q", got.Company)
	}
	if got.Location != "Zürich" {
		t.Errorf("Location = %q", got.Location)
	}
	if got.Canton != "ZH" {
		t.Errorf("Canton = %q", got.Canton)
	}
	if got.URL != "https://example.com/j1" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.PostedAt == nil || !got.PostedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("PostedAt = %v", got.PostedAt)
	}
	if got.Salary != "CHF 80'000" {
		t.Errorf("Salary = %q", got.Salary)
	}
}

func TestIndeedListing_DefaultLocation(t *testing.T) {
	got := IndeedListing(map[string]any{"id": "1"}, "")
	if got.Location != "Switzerland" {
		t.Errorf("Location = %q, want Switzerland", got.Location)
	}
}

func TestRAVListing(t *testing.T) {
	item := map[string]any{
		"externalId":      "e7",
		"title":           "Logistiker",
		"company":         map[string]any{"displayName": "Post CH"},
		"workplace":       map[string]any{"city": "Bern", "canton": "BE"},
		"url":             "https://rav.example/jobs/e7",
		"publicationDate": "2024-05-20",
		"employment":      map[string]any{"workloadPeriod": "100%"},
		"description":     "Long description",
	}

	got := RAVListing(item)
	if got == nil {
		t.Fatal("RAVListing returned nil")
	}
	if got.ID != "rav:e7" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Company != "Post CH" {
		t.Errorf("Company = %q", got.Company)
	}
	if got.Canton != "BE" {
		t.Errorf("Canton = %q", got.Canton)
	}
	if got.PostedAt == nil {
		t.Error("PostedAt = nil, want parsed date")
	}
}

func TestRAVListing_SnippetTruncated(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	got := RAVListing(map[string]any{"id": "1", "description": string(long)})
	if len(got.Snippet) != 280 {
		t.Errorf("snippet length = %d, want 280", len(got.Snippet))
	}
}

func TestRAVListing_SnippetTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", 400)
	got := RAVListing(map[string]any{"id": "1", "description": long})

	if !utf8.ValidString(got.Snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", got.Snippet[len(got.Snippet)-4:])
	}
	if n := utf8.RuneCountInString(got.Snippet); n != 280 {
		t.Errorf("snippet runes = %d, want 280", n)
	}
}

func TestRAVListing_NoIdentifier(t *testing.T) {
	if got := RAVListing(map[string]any{"title": "x"}); got != nil {
		t.Errorf("RAVListing = %+v, want nil", got)
	}
}

func TestParseProviderDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2024-03-01T10:00:00Z", timePtr(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))},
		{"2024-05-20", timePtr(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"yesterday", nil},
		{"01/02/2024", nil},
	}

	for _, tt := range tests {
		got := ParseProviderDate(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseProviderDate(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		if got != nil && !got.Equal(*tt.want) {
			t.Errorf("ParseProviderDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestListingSlice(t *testing.T) {
	data := map[string]any{
		"jobs": []any{
			map[string]any{"id": "1"},
			"not-an-object",
			map[string]any{"id": "2"},
		},
	}

	got := ListingSlice(data, "data", "jobs", "results")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (non-object entries dropped)", len(got))
	}
}

func timePtr(t time.Time) *time.Time { return &t }
