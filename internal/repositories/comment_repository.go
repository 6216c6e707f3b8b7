package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
)

// CommentRepository defines data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id models.Key) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id models.Key) error

	// ByVideo returns the video's comments newest first, joined with owner
	// summaries and like counts, plus the total comment count.
	ByVideo(ctx context.Context, video models.Key, window pagination.Params) ([]models.CommentFeedItem, int, error)
}
