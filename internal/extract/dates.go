package extract

import (
	"strings"
	"time"
)

// providerDateFormats are tried in order when parsing provider timestamps.
var providerDateFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// ParseProviderDate parses a provider timestamp against the supported
// formats. Unparseable or empty input yields nil, which sorts last when
// ordering by post date descending.
func ParseProviderDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range providerDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// ParseMetaTime parses an article:published_time meta value. The original
// publishers ship ISO timestamps with optional Z suffix or offset; both are
// reduced to the bare local form before parsing.
func ParseMetaTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	value = strings.TrimSuffix(value, "Z")
	if i := strings.IndexAny(value, "+"); i > 0 {
		value = value[:i]
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
