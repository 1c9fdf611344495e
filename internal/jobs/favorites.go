package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// FavoriteService manages per-user job favorites. A favorite stores a
// snapshot of the listing's display fields and is never synchronized back
// to the live listing.
type FavoriteService struct {
	favorites repository.JobFavoriteRepository
	now       func() time.Time
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(favorites repository.JobFavoriteRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, now: time.Now}
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*model.JobFavorite, error) {
	return s.favorites.ListByUserID(ctx, userID)
}

// Add stores a snapshot of the given listing for the user.
func (s *FavoriteService) Add(ctx context.Context, userID string, listing model.JobListing) (*model.JobFavorite, error) {
	if listing.ID == "" {
		return nil, model.NewInvalidRequestError("listing id is required")
	}

	fav := &model.JobFavorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		JobID:     listing.ID,
		Source:    listing.Source,
		Title:     listing.Title,
		Company:   listing.Company,
		Location:  listing.Location,
		Canton:    listing.Canton,
		URL:       listing.URL,
		CreatedAt: s.now(),
	}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

// Remove deletes the favorite when it belongs to the user.
func (s *FavoriteService) Remove(ctx context.Context, id, userID string) error {
	found, err := s.favorites.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return model.NewNotFoundError("favorite", id)
	}
	return nil
}
