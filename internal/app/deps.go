package app

import (
	"context"
	"time"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/config"
	"github.com/viewtube/backend/internal/db"
	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/handlers"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/middleware"
	"github.com/viewtube/backend/internal/repositories"
	"github.com/viewtube/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	objectStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	ffprobe := media.NewFFProbeProber(cfg.FFProbePath, cfg.FFProbeTimeout)
	prober := media.NewCachingProber(ffprobe, cfg.ProbeCacheTTL)

	sessionStore := repositories.NewPostgresSessionStore(pool)
	engagementRepo := repositories.NewPostgresEngagementRepository(pool)

	return handlers.Dependencies{
		Users:     repositories.NewPostgresUserRepository(pool),
		Videos:    repositories.NewPostgresVideoRepository(pool),
		Comments:  repositories.NewPostgresCommentRepository(pool),
		Tweets:    repositories.NewPostgresTweetRepository(pool),
		Playlists: repositories.NewPostgresPlaylistRepository(pool),

		Engagement:    engagement.NewService(engagementRepo, engagementRepo, engagementRepo),
		Subscriptions: engagementRepo,

		Sessions: auth.NewManager(cfg.AccessTTL, cfg.RefreshTTL, sessionStore),
		Uploader: media.NewUploader(objectStore),
		Prober:   prober,

		AuthLimiter:  middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
		WriteLimiter: middleware.NewIPRateLimiter(120, time.Minute, 30, 10*time.Minute),
	}, nil
}
