package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/viewtube/backend/internal/authz"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// PlaylistHandler implements playlist endpoints.
type PlaylistHandler struct {
	Playlists repositories.PlaylistRepository
	Sessions  SessionManager
	NowFunc   func() time.Time
}

type playlistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if name == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	var description string
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          models.NewKey(),
		Name:        name,
		Description: description,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("playlist created", "playlistId", playlist.ID, "owner", owner)
	respondData(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// ByUser handles GET /api/v1/users/{userId}/playlists.
func (h PlaylistHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := pathKey(r, "userId")
	if err != nil {
		respondError(ctx, w, err, "user id is invalid")
		return
	}

	playlists, err := h.Playlists.ByOwner(ctx, owner)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	respondData(ctx, w, http.StatusOK, playlists, "playlists fetched")
}

// Get handles GET /api/v1/playlists/{playlistId}, expanding members into
// full video feed items in playlist order.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathKey(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err, "playlist id is invalid")
		return
	}

	detail, err := h.Playlists.Detail(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, detail, "playlist fetched")
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil && req.Description == nil {
		respondMessage(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondMessage(ctx, w, http.StatusBadRequest, "name must not be empty")
			return
		}
		playlist.Name = name
	}
	if req.Description != nil {
		playlist.Description = strings.TrimSpace(*req.Description)
	}
	playlist.UpdatedAt = h.now()

	if err := h.Playlists.Update(ctx, playlist); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist updated")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}. Member videos are
// untouched; only the collection goes away.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo handles POST /api/v1/playlists/{playlistId}/videos/{videoId}.
// Membership is a set; adding a video twice is a no-op.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	video, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, video); err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video added to playlist")
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	video, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, video); err != nil {
		respondError(ctx, w, err, "video is not in this playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

func (h PlaylistHandler) loadOwned(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return models.Playlist{}, false
	}

	id, err := pathKey(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err, "playlist id is invalid")
		return models.Playlist{}, false
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "playlist not found")
		return models.Playlist{}, false
	}

	if err := authz.RequireOwner(playlist, actor); err != nil {
		respondError(ctx, w, err, "only the owner may modify this playlist")
		return models.Playlist{}, false
	}

	return playlist, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
