// Package live serves queue/wait estimates for public service points.
// Estimates come from a category heuristic, augmented with opening hours
// from the OpenStreetMap Overpass API when coordinates are provided.
package live

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	overpassURL     = "https://overpass-api.de/api/interpreter"
	overpassTimeout = 12 * time.Second
	cacheTTL        = 5 * time.Minute
	cacheSize       = 1024
	searchRadius    = 500
)

// PlaceStatus is the live estimate for one place.
type PlaceStatus struct {
	WaitMinutes int        `json:"wait_minutes"`
	BusyLevel   string     `json:"busy_level"` // low|medium|high
	HoursText   string     `json:"hours_text,omitempty"`
	Provider    string     `json:"provider"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosesAt    *time.Time `json:"closes_at,omitempty"`
}

// Query identifies the place a status is requested for.
type Query struct {
	Name     string
	Category string
	Canton   string
	Lat      *float64
	Lng      *float64
}

type categoryEstimate struct {
	waitMinutes int
	busyLevel   string
}

var categoryEstimates = map[string]categoryEstimate{
	"migration_office": {25, "high"},
	"hospital":         {15, "high"},
	"clinic":           {10, "medium"},
	"pharmacy":         {5, "low"},
	"train_station":    {8, "medium"},
	"gemeinde":         {12, "medium"},
}

var defaultEstimate = categoryEstimate{7, "low"}

// Service computes place statuses with a TTL cache keyed by the query.
type Service struct {
	client      *resty.Client
	overpassURL string
	cache       *expirable.LRU[string, PlaceStatus]
	now         func() time.Time
}

// NewService creates a live status Service.
func NewService() *Service {
	return &Service{
		client:      resty.New().SetTimeout(overpassTimeout),
		overpassURL: overpassURL,
		cache:       expirable.NewLRU[string, PlaceStatus](cacheSize, nil, cacheTTL),
		now:         time.Now,
	}
}

// PlaceStatus returns the live estimate for the queried place. Results are
// cached for five minutes per distinct query.
func (s *Service) PlaceStatus(ctx context.Context, q Query) PlaceStatus {
	key := cacheKey(q)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	est, ok := categoryEstimates[q.Category]
	if !ok {
		est = defaultEstimate
	}
	status := PlaceStatus{
		WaitMinutes: est.waitMinutes,
		BusyLevel:   est.busyLevel,
		Provider:    "heuristic",
		UpdatedAt:   s.now().UTC(),
	}

	if hours := s.openingHours(ctx, q); hours != "" {
		status.HoursText = hours
		status.Provider += "+overpass"
	}

	s.cache.Add(key, status)
	return status
}

// openingHours looks up the opening_hours tag of a nearby element with a
// matching name. Any failure yields an empty string.
func (s *Service) openingHours(ctx context.Context, q Query) string {
	if q.Lat == nil || q.Lng == nil {
		return ""
	}

	safeName := strings.ReplaceAll(q.Name, `"`, `\"`)
	query := fmt.Sprintf(`[out:json][timeout:12];
(
  node(around:%d,%f,%f)["name"~"%s", i];
  way(around:%d,%f,%f)["name"~"%s", i];
  relation(around:%d,%f,%f)["name"~"%s", i];
);
out tags center 10;`,
		searchRadius, *q.Lat, *q.Lng, safeName,
		searchRadius, *q.Lat, *q.Lng, safeName,
		searchRadius, *q.Lat, *q.Lng, safeName)

	var payload struct {
		Elements []struct {
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(query).
		SetResult(&payload).
		Post(s.overpassURL)
	if err != nil || resp.IsError() {
		return ""
	}

	for _, el := range payload.Elements {
		if hours, ok := el.Tags["opening_hours"]; ok {
			return hours
		}
	}
	return ""
}

func cacheKey(q Query) string {
	parts := []string{
		"name=" + q.Name,
		"category=" + q.Category,
		"canton=" + q.Canton,
	}
	if q.Lat != nil {
		parts = append(parts, fmt.Sprintf("lat=%f", *q.Lat))
	}
	if q.Lng != nil {
		parts = append(parts, fmt.Sprintf("lng=%f", *q.Lng))
	}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(sum[:])
}
