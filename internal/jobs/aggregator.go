// Package jobs aggregates job listings from third-party providers and
// manages user favorites.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sweeezy/backend/internal/extract"
	"github.com/sweeezy/backend/internal/model"
)

const providerTimeout = 15 * time.Second

// ProviderMetrics receives per-provider request outcomes. May be nil.
type ProviderMetrics interface {
	RecordProviderRequest(provider string)
	RecordProviderFailure(provider string)
}

// ProviderConfig holds the provider credentials and endpoints. A provider is
// consulted only when its key/URL is set.
type ProviderConfig struct {
	RapidAPIKey  string
	RapidAPIHost string
	RAVBaseURL   string
	RAVToken     string
}

// Aggregator fans one search out to the configured providers, merges their
// normalized listings, sorts by post date and paginates. Provider failures
// never surface as errors.
type Aggregator struct {
	client  *resty.Client
	config  ProviderConfig
	metrics ProviderMetrics

	// scheme for the RapidAPI host, "https" outside of tests.
	scheme string
}

// NewAggregator creates an Aggregator. metrics may be nil.
func NewAggregator(config ProviderConfig, metrics ProviderMetrics) *Aggregator {
	return &Aggregator{
		client:  resty.New().SetTimeout(providerTimeout),
		config:  config,
		metrics: metrics,
		scheme:  "https",
	}
}

// Search runs one aggregated job search. Both providers are always attempted
// when configured; there is no early exit. The per-provider count is -1 when
// every attempt against that provider failed outright, distinguishing
// "unreachable" from "zero results".
func (a *Aggregator) Search(ctx context.Context, query, canton string, page, perPage int) model.JobSearchResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var items []model.JobListing
	counts := map[string]int{}

	if a.config.RapidAPIKey != "" {
		indeedItems, ok := a.searchIndeed(ctx, query, canton, page)
		if ok {
			items = append(items, indeedItems...)
			counts["indeed"] = len(indeedItems)
		} else {
			counts["indeed"] = -1
		}
	}

	if a.config.RAVBaseURL != "" {
		ravItems := a.searchRAV(ctx, query, canton, page, perPage)
		if ravItems != nil {
			items = append(items, ravItems...)
			counts["rav"] = len(ravItems)
		}
	}

	sortListings(items)

	total := len(items)
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return model.JobSearchResult{
		Items:        items[start:end],
		Total:        total,
		SourceCounts: counts,
	}
}

// indeedVariant is one endpoint-path/parameter-name combination. Different
// RapidAPI packs expose the same data under slightly different shapes, so
// the variants are tried in order until one yields a parseable listing.
type indeedVariant struct {
	path   string
	params map[string]string
}

func (a *Aggregator) indeedVariants(query, canton string, page int) []indeedVariant {
	location := strings.Trim(fmt.Sprintf("%s, Switzerland", canton), ", ")
	pageStr := strconv.Itoa(page)

	if query != "" {
		return []indeedVariant{
			{"/jobs/search", map[string]string{"query": query, "location": location, "country": "CH", "page_id": pageStr}},
			{"/jobs/search", map[string]string{"q": query, "location": location, "country": "CH", "page": pageStr}},
			{"/search", map[string]string{"query": query, "location": location, "country": "CH", "page": pageStr}},
			{"/search", map[string]string{"q": query, "l": location, "page": pageStr}},
		}
	}
	return []indeedVariant{
		{"/jobs/search", map[string]string{"location": location, "country": "CH", "page_id": pageStr}},
		{"/jobs/search", map[string]string{"location": location, "country": "CH", "page": pageStr}},
		{"/search", map[string]string{"location": location, "country": "CH", "page": pageStr}},
		{"/search", map[string]string{"l": location, "page": pageStr}},
	}
}

// searchIndeed tries the endpoint variants in order. ok is false only when
// every variant failed to produce at least one parseable listing.
func (a *Aggregator) searchIndeed(ctx context.Context, query, canton string, page int) ([]model.JobListing, bool) {
	if a.metrics != nil {
		a.metrics.RecordProviderRequest("indeed")
	}

	for _, v := range a.indeedVariants(strings.TrimSpace(query), canton, page) {
		resp, err := a.client.R().
			SetContext(ctx).
			SetHeader("x-rapidapi-key", a.config.RapidAPIKey).
			SetHeader("x-rapidapi-host", a.config.RapidAPIHost).
			SetQueryParams(v.params).
			Get(a.scheme + "://" + a.config.RapidAPIHost + v.path)
		if err != nil || resp.StatusCode() != http.StatusOK {
			continue
		}

		var data map[string]any
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			continue
		}

		raw := extract.ListingSlice(data, "data", "jobs", "results", "items")
		var listings []model.JobListing
		for _, item := range raw {
			if l := extract.IndeedListing(item, canton); l != nil {
				listings = append(listings, *l)
			}
		}
		if len(listings) > 0 {
			return listings, true
		}
	}

	if a.metrics != nil {
		a.metrics.RecordProviderFailure("indeed")
	}
	return nil, false
}

// searchRAV queries the public job registry once. Any failure yields nil and
// omits the provider from the counts.
func (a *Aggregator) searchRAV(ctx context.Context, query, canton string, page, perPage int) []model.JobListing {
	if a.metrics != nil {
		a.metrics.RecordProviderRequest("rav")
	}

	base := strings.TrimRight(a.config.RAVBaseURL, "/")
	url := base
	if !strings.HasSuffix(strings.ToLower(base), "jobadvertisements") {
		url = base + "/jobAdvertisements"
	}

	req := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":            query,
			"workplaceCantons": canton,
			"page":             strconv.Itoa(page - 1),
			"size":             strconv.Itoa(perPage),
		})
	if a.config.RAVToken != "" {
		req.SetHeader("Authorization", "Bearer "+a.config.RAVToken)
	}

	resp, err := req.Get(url)
	if err != nil || resp.StatusCode() != http.StatusOK {
		if a.metrics != nil {
			a.metrics.RecordProviderFailure("rav")
		}
		return nil
	}

	// The registry answers either a paged envelope or a bare array.
	var raw []map[string]any
	var envelope map[string]any
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil {
		raw = extract.ListingSlice(envelope, "content")
	} else {
		var list []map[string]any
		if err := json.Unmarshal(resp.Body(), &list); err != nil {
			if a.metrics != nil {
				a.metrics.RecordProviderFailure("rav")
			}
			return nil
		}
		raw = list
	}

	listings := []model.JobListing{}
	for _, item := range raw {
		if l := extract.RAVListing(item); l != nil {
			listings = append(listings, *l)
		}
	}
	return listings
}

// sortListings orders by posted_at descending; listings without a parsed
// timestamp sort last. The sort is stable so provider order breaks ties.
func sortListings(items []model.JobListing) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].PostedAt, items[j].PostedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
}
