package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/models"
)

// UserRepository defines the data access contract for users and channels.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id models.Key) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	SetRefreshToken(ctx context.Context, id models.Key, token *string) error

	// ChannelProfile resolves a channel view by username, deriving
	// subscription counts and the viewer's subscribed flag at read time.
	ChannelProfile(ctx context.Context, username string, viewer models.Key) (models.ChannelProfile, error)
}
