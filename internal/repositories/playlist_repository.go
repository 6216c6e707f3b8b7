package repositories

import (
	"context"

	"github.com/viewtube/backend/internal/models"
)

// PlaylistRepository defines data access for playlists and their video
// membership set.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id models.Key) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id models.Key) error
	ByOwner(ctx context.Context, owner models.Key) ([]models.Playlist, error)

	// AddVideo appends a video to the playlist; adding a member twice is a
	// no-op. RemoveVideo reports ErrNotFound when the video is not a member.
	AddVideo(ctx context.Context, playlist, video models.Key) error
	RemoveVideo(ctx context.Context, playlist, video models.Key) error

	// Detail expands the playlist's members into full video feed items in
	// playlist order.
	Detail(ctx context.Context, id models.Key) (models.PlaylistDetail, error)
}
