// Package extract maps heterogeneous third-party records into normalized
// internal models. All functions are pure: a record that cannot be mapped
// yields nil, never an error, so one malformed record cannot abort a batch.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sweeezy/backend/internal/model"
)

// stringField returns the first non-empty string value among the candidate
// keys. Numeric values are rendered with %v so numeric provider ids survive.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		case float64, int, int64:
			return fmt.Sprintf("%v", s)
		}
	}
	return ""
}

// nestedField returns m[key][sub] when m[key] is itself an object.
func nestedField(m map[string]any, key string, sub ...string) string {
	v, ok := m[key].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(v, sub...)
}

// IndeedListing normalizes one record from the RapidAPI Indeed-style
// provider. Records without a usable identifier are discarded (nil).
func IndeedListing(item map[string]any, canton string) *model.JobListing {
	if item == nil {
		return nil
	}

	jobID := stringField(item, "jobkey", "id", "job_id", "jobKey")
	if jobID == "" {
		return nil
	}

	location := stringField(item, "location", "city")
	if location == "" {
		location = "Switzerland"
	}

	return &model.JobListing{
		ID:             "indeed:" + jobID,
		Source:         "indeed",
		Title:          stringField(item, "title"),
		Company:        stringField(item, "company", "employer_name"),
		Location:       location,
		Canton:         canton,
		URL:            stringField(item, "url", "job_url"),
		PostedAt:       ParseProviderDate(stringField(item, "date", "published_at")),
		EmploymentType: stringField(item, "employment_type"),
		Salary:         stringField(item, "salary", "salary_info"),
		Snippet:        stringField(item, "snippet", "description_snippet"),
	}
}

// RAVListing normalizes one record from the public job-registry API.
// Records without a usable identifier are discarded (nil).
func RAVListing(item map[string]any) *model.JobListing {
	if item == nil {
		return nil
	}

	jobID := stringField(item, "id", "externalId")
	if jobID == "" {
		return nil
	}

	snippet := truncateRunes(stringField(item, "description"), 280)

	return &model.JobListing{
		ID:             "rav:" + jobID,
		Source:         "rav",
		Title:          stringField(item, "title"),
		Company:        nestedField(item, "company", "name", "displayName"),
		Location:       nestedField(item, "workplace", "city"),
		Canton:         nestedField(item, "workplace", "canton"),
		URL:            stringField(item, "jobAdvertisementUrl", "url"),
		PostedAt:       ParseProviderDate(stringField(item, "publicationDate", "createdDate")),
		EmploymentType: nestedField(item, "employment", "workloadPeriod"),
		Snippet:        snippet,
	}
}

// ListingSlice returns the provider's result array from a response envelope,
// trying the key names the provider variants are known to use.
func ListingSlice(data map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		raw, ok := data[k].([]any)
		if !ok {
			continue
		}
		items := make([]map[string]any, 0, len(raw))
		for _, el := range raw {
			if m, ok := el.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}
	return nil
}

// truncateRunes cuts s after max runes so a multi-byte character is never
// split mid-sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
