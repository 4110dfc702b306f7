// Package usecase implements the controller's async collaborators over the
// Kakao search API and the locker store.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/locker/internal/domain"
)

// Search queries images and video clips concurrently and merges them
type Search struct {
	repo   domain.SearchRepository
	logger *slog.Logger
}

// NewSearch creates a search use case.
func NewSearch(repo domain.SearchRepository, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{repo: repo, logger: logger}
}

// Execute returns image results followed by video results.
// One failing source still yields the other's results unless the other came
// back empty, in which case the failure is returned so an outage is not
// mistaken for "no results". If both fail the image error is returned.
func (s *Search) Execute(ctx context.Context, query string) ([]domain.Thumbnail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	var (
		images, videos     []domain.Thumbnail
		imageErr, videoErr error
	)

	// No shared context: one source failing must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		images, imageErr = s.repo.SearchImages(ctx, query)
		return imageErr
	})
	g.Go(func() error {
		videos, videoErr = s.repo.SearchVideos(ctx, query)
		return videoErr
	})
	if err := g.Wait(); err != nil {
		switch {
		case imageErr != nil && videoErr != nil:
			s.logger.Error("failed to search", "error", imageErr, "videoError", videoErr, "query", query)
			return nil, imageErr
		case imageErr != nil && len(videos) == 0:
			s.logger.Error("image search failed with no videos to fall back on", "error", imageErr, "query", query)
			return nil, imageErr
		case videoErr != nil && len(images) == 0:
			s.logger.Error("video search failed with no images to fall back on", "error", videoErr, "query", query)
			return nil, videoErr
		case imageErr != nil:
			s.logger.Warn("image search failed, returning videos only", "error", imageErr, "query", query)
		default:
			s.logger.Warn("video search failed, returning images only", "error", videoErr, "query", query)
		}
	}

	results := make([]domain.Thumbnail, 0, len(images)+len(videos))
	results = append(results, images...)
	results = append(results, videos...)

	s.logger.Debug("searched", "query", query, "images", len(images), "videos", len(videos))
	return results, nil
}
