package player

import (
	"context"

	"github.com/sharetube/playback/internal/domain"
)

// GetPoster resolves the poster of a YouTube video id or URL.
func (s *service) GetPoster(ctx context.Context, src string) (string, error) {
	videoID, ok := domain.YouTubeVideoID(src)
	if !ok {
		return "", ErrInvalidVideoID
	}

	url, ok := s.posters.Resolve(ctx, videoID)
	if !ok {
		return "", ErrPosterNotFound
	}

	return url, nil
}
