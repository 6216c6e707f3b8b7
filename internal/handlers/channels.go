package handlers

import (
	"net/http"
	"strings"

	"github.com/viewtube/backend/internal/pagination"
	"github.com/viewtube/backend/internal/repositories"
)

// ChannelHandler implements the channel profile and dashboard endpoints.
type ChannelHandler struct {
	Users    repositories.UserRepository
	Videos   repositories.VideoRepository
	Sessions SessionManager
}

// Profile handles GET /api/v1/channels/{username}. The viewer, when
// authenticated, gets their subscribed flag resolved in the same read.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	// Anonymous viewers simply get isSubscribed=false.
	viewer, _ := principal(r, h.Sessions)

	profile, err := h.Users.ChannelProfile(ctx, username, viewer)
	if err != nil {
		respondError(ctx, w, err, "channel not found")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel profile fetched")
}

// DashboardStats handles GET /api/v1/dashboard/stats for the caller's own
// channel.
func (h ChannelHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	stats, err := h.Videos.ChannelStats(ctx, owner)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched")
}

// DashboardVideos handles GET /api/v1/dashboard/videos, listing the caller's
// own videos including drafts.
func (h ChannelHandler) DashboardVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	opts := repositories.VideoFeedOptions{
		Owner:              owner,
		IncludeUnpublished: true,
		Window:             windowFromQuery(r),
	}

	items, total, err := h.Videos.Feed(ctx, opts)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, pagination.New(items, opts.Window, total), "channel videos fetched")
}
