package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
)

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id models.Key) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id models.Key) error

	// ByOwner returns the user's tweets newest first with like counts, plus
	// the total tweet count.
	ByOwner(ctx context.Context, owner models.Key, window pagination.Params) ([]models.TweetFeedItem, int, error)
}
