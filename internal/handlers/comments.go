package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/viewtube/backend/internal/authz"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
	"github.com/viewtube/backend/internal/repositories"
)

// CommentHandler implements comment endpoints.
type CommentHandler struct {
	Comments repositories.CommentRepository
	Sessions SessionManager
	NowFunc  func() time.Time
}

// List handles GET /api/v1/videos/{videoId}/comments, newest first.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return
	}

	window := windowFromQuery(r)
	items, total, err := h.Comments.ByVideo(ctx, video, window)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, pagination.New(items, window, total), "comments fetched")
}

type commentRequest struct {
	Content string `json:"content"`
}

// Add handles POST /api/v1/videos/{videoId}/comments.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	video, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        models.NewKey(),
		Content:   content,
		Video:     video,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	logging.FromContext(ctx).Info("comment added", "commentId", comment.ID, "videoId", video, "owner", owner)
	respondData(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/{commentId}. Ownership is checked
// against a fresh load.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	comment.Content = content
	comment.UpdatedAt = h.now()

	if err := h.Comments.Update(ctx, comment); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, comment, "comment updated")
}

// Delete handles DELETE /api/v1/comments/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) loadOwned(w http.ResponseWriter, r *http.Request) (models.Comment, bool) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return models.Comment{}, false
	}

	id, err := pathKey(r, "commentId")
	if err != nil {
		respondError(ctx, w, err, "comment id is invalid")
		return models.Comment{}, false
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "comment not found")
		return models.Comment{}, false
	}

	if err := authz.RequireOwner(comment, actor); err != nil {
		respondError(ctx, w, err, "only the owner may modify this comment")
		return models.Comment{}, false
	}

	return comment, true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
