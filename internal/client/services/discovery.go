package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tapmap-app/tapmap/internal/client/api"
	"github.com/tapmap-app/tapmap/internal/client/models"
	"github.com/tapmap-app/tapmap/internal/logging"
)

// DiscoveryService wraps the venue/event endpoints: bar listings, menus,
// reviews, events and the caller's favorites.
type DiscoveryService struct {
	api *api.Client
	log logging.Logger
}

func NewDiscoveryService(apiClient *api.Client, log logging.Logger) *DiscoveryService {
	return &DiscoveryService{api: apiClient, log: log}
}

// Bars lists venues, optionally filtered by a free-text search query.
func (s *DiscoveryService) Bars(ctx context.Context, query string) ([]models.Bar, error) {
	path := "/bars"
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}

	env, err := s.api.Do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var bars []models.Bar
	if err := env.Decode(&bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// Bar fetches a single venue by id.
func (s *DiscoveryService) Bar(ctx context.Context, id string) (*models.Bar, error) {
	env, err := s.api.Do(ctx, http.MethodGet, "/bars/"+url.PathEscape(id), nil, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var bar models.Bar
	if err := env.Decode(&bar); err != nil {
		return nil, err
	}
	return &bar, nil
}

// MenuItems lists a venue's menu.
func (s *DiscoveryService) MenuItems(ctx context.Context, barID string) ([]models.MenuItem, error) {
	env, err := s.api.Do(ctx, http.MethodGet, "/bars/"+url.PathEscape(barID)+"/menu-items", nil, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var items []models.MenuItem
	if err := env.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// Events lists upcoming events across venues.
func (s *DiscoveryService) Events(ctx context.Context) ([]models.Event, error) {
	env, err := s.api.Do(ctx, http.MethodGet, "/events", nil, false)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var events []models.Event
	if err := env.Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// reviewRequest is the posted review payload.
type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// PostReview submits a review for a venue. Requires authentication.
func (s *DiscoveryService) PostReview(ctx context.Context, barID string, rating int, comment string) (*models.Review, error) {
	req := reviewRequest{Rating: rating, Comment: comment}
	if err := Validate(req); err != nil {
		return nil, err
	}

	env, err := s.api.Do(ctx, http.MethodPost, "/bars/"+url.PathEscape(barID)+"/reviews", req, true)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var review models.Review
	if err := env.Decode(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Favorites lists the caller's favorite venues. Requires authentication.
func (s *DiscoveryService) Favorites(ctx context.Context) ([]models.Bar, error) {
	env, err := s.api.Do(ctx, http.MethodGet, "/users/me/favorites", nil, true)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeError(env)
	}

	var bars []models.Bar
	if err := env.Decode(&bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// AddFavorite marks a venue as favorite. Requires authentication.
func (s *DiscoveryService) AddFavorite(ctx context.Context, barID string) error {
	body := map[string]string{"barId": barID}
	env, err := s.api.Do(ctx, http.MethodPost, "/favorites", body, true)
	if err != nil {
		return err
	}
	if !env.Success {
		return envelopeError(env)
	}
	return nil
}

// RemoveFavorite unmarks a favorite venue. Requires authentication.
func (s *DiscoveryService) RemoveFavorite(ctx context.Context, barID string) error {
	env, err := s.api.Do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(barID), nil, true)
	if err != nil {
		return err
	}
	if !env.Success {
		return envelopeError(env)
	}
	return nil
}
