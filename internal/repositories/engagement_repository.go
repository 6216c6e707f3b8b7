package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/models"
)

// EngagementRepository couples the toggle-engine edge stores with the
// subscription list views derived from the same tables.
type EngagementRepository interface {
	engagement.LikeStore
	engagement.SubscriptionStore
	engagement.TargetResolver

	// Subscribers expands the channel's subscription edges into public user
	// summaries. SubscribedChannels does the same from the subscriber side.
	Subscribers(ctx context.Context, channel models.Key) ([]models.OwnerSummary, error)
	SubscribedChannels(ctx context.Context, subscriber models.Key) ([]models.OwnerSummary, error)
}
