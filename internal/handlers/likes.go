package handlers

import (
	"net/http"

	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// LikeHandler flips like edges and expands a user's liked videos.
type LikeHandler struct {
	Engagement ToggleEngine
	Videos     repositories.VideoRepository
	Sessions   SessionManager
}

type likeToggleResponse struct {
	Liked bool `json:"liked"`
}

// ToggleVideo handles POST /api/v1/likes/video/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId")
}

// ToggleComment handles POST /api/v1/likes/comment/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId")
}

// ToggleTweet handles POST /api/v1/likes/tweet/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeTarget, param string) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	target, err := pathKey(r, param)
	if err != nil {
		respondError(ctx, w, err, "target id is invalid")
		return
	}

	result, err := h.Engagement.ToggleLike(ctx, actor, kind, target)
	if err != nil {
		respondError(ctx, w, err, "could not toggle like")
		return
	}

	logging.FromContext(ctx).Info("like toggled",
		"actor", actor, "targetKind", kind, "targetId", target, "liked", result.Created)

	message := "like removed"
	if result.Created {
		message = "like added"
	}
	respondData(ctx, w, http.StatusOK, likeToggleResponse{Liked: result.Created}, message)
}

// LikedVideos handles GET /api/v1/likes/videos, expanding the caller's video
// likes into full feed items.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	items, err := h.Videos.LikedBy(ctx, actor)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}
	if items == nil {
		items = []models.VideoFeedItem{}
	}

	respondData(ctx, w, http.StatusOK, items, "liked videos fetched")
}
