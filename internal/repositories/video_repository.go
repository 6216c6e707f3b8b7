package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
)

// VideoSort names the whitelisted sort fields for the video feed.
type VideoSort string

const (
	VideoSortCreatedAt VideoSort = "createdAt"
	VideoSortViews     VideoSort = "views"
	VideoSortDuration  VideoSort = "duration"
	VideoSortTitle     VideoSort = "title"
)

// VideoFeedOptions narrows and orders the video feed. Sorting is applied
// before the pagination window; the zero value lists published videos newest
// first.
type VideoFeedOptions struct {
	Query     string
	Owner     models.Key
	SortBy    VideoSort
	Ascending bool
	Window    pagination.Params

	// IncludeUnpublished widens an owner-scoped feed to unpublished videos.
	// It is ignored without Owner; the public feed never shows drafts.
	IncludeUnpublished bool
}

// VideoRepository exposes data access for videos and their derived views.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id models.Key) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id models.Key) error
	IncrementViews(ctx context.Context, id models.Key) error

	// FeedItem returns a single video joined with its owner summary and
	// like count.
	FeedItem(ctx context.Context, id models.Key) (models.VideoFeedItem, error)
	// Feed returns the windowed feed plus the total match count before
	// windowing.
	Feed(ctx context.Context, opts VideoFeedOptions) ([]models.VideoFeedItem, int, error)
	// LikedBy expands a user's video likes into full feed items.
	LikedBy(ctx context.Context, user models.Key) ([]models.VideoFeedItem, error)
	// ChannelStats aggregates a channel owner's videos for the dashboard.
	ChannelStats(ctx context.Context, owner models.Key) (models.ChannelStats, error)
}
