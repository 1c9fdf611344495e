package jobs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// AnalyticsService records search keywords and serves the top-keywords
// aggregation for the admin dashboard.
type AnalyticsService struct {
	events repository.JobSearchEventRepository
	now    func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(events repository.JobSearchEventRepository) *AnalyticsService {
	return &AnalyticsService{events: events, now: time.Now}
}

// RecordSearch logs one search keyword. Empty keywords are not recorded.
// Failures are logged and swallowed so analytics never breaks a search.
func (s *AnalyticsService) RecordSearch(ctx context.Context, keyword, canton string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}

	event := &model.JobSearchEvent{
		ID:        uuid.NewString(),
		Keyword:   strings.ToLower(keyword),
		Canton:    canton,
		CreatedAt: s.now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		slog.Warn("failed to record job search event", "error", err)
	}
}

// TopKeywords returns the most frequent keyword/canton pairs.
func (s *AnalyticsService) TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.events.TopKeywords(ctx, limit)
}
