package handlers

import (
	"context"
	"io"

	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// SessionManager issues and resolves the session tokens handlers exchange
// with clients.
type SessionManager interface {
	Issue(ctx context.Context, userID models.Key) (models.SessionTokens, error)
	Identity(ctx context.Context, accessToken string) (models.Key, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, userID models.Key)
}

// ToggleEngine flips engagement edges idempotently.
type ToggleEngine interface {
	ToggleLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (engagement.LikeToggle, error)
	ToggleSubscription(ctx context.Context, subscriber, channel models.Key) (engagement.SubscriptionToggle, error)
}

// SubscriptionViews lists the users on either side of subscription edges.
type SubscriptionViews interface {
	Subscribers(ctx context.Context, channel models.Key) ([]models.OwnerSummary, error)
	SubscribedChannels(ctx context.Context, subscriber models.Key) ([]models.OwnerSummary, error)
}

// AssetUploader stores an uploaded media object and returns its public URL.
type AssetUploader interface {
	Upload(ctx context.Context, kind, filename string, r io.Reader) (string, error)
}

// MediaProber extracts technical metadata from a media file on disk.
type MediaProber interface {
	Inspect(ctx context.Context, path string) (media.Probe, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users     repositories.UserRepository
	Videos    repositories.VideoRepository
	Comments  repositories.CommentRepository
	Tweets    repositories.TweetRepository
	Playlists repositories.PlaylistRepository

	Engagement    ToggleEngine
	Subscriptions SubscriptionViews

	Sessions SessionManager
	Uploader AssetUploader
	Prober   MediaProber

	// AuthLimiter throttles credential endpoints; WriteLimiter throttles
	// every other mutation.
	AuthLimiter  RateLimiter
	WriteLimiter RateLimiter
}
