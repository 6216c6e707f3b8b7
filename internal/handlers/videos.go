package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viewtube/backend/internal/authz"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
	"github.com/viewtube/backend/internal/repositories"
)

// publishMaxMemory caps how much of the multipart publish payload is
// buffered in memory; larger uploads spill to disk.
const publishMaxMemory = 32 << 20

// VideoHandler implements the video lifecycle and feed endpoints.
type VideoHandler struct {
	Videos   repositories.VideoRepository
	Sessions SessionManager
	Uploader AssetUploader
	Prober   MediaProber
	NowFunc  func() time.Time
}

// Publish handles POST /api/v1/videos. The payload is multipart carrying the
// video file, a thumbnail and the descriptive fields.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(publishMaxMemory); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "videoFile is required")
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "thumbnail is required")
		return
	}
	defer thumbFile.Close()

	// The uploaded video is staged on disk so its duration can be probed
	// before the bytes stream to the object store.
	stagedPath, cleanup, err := stageUpload(videoFile)
	if err != nil {
		logger.Error("stage video upload", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store video")
		return
	}
	defer cleanup()

	var duration float64
	if h.Prober != nil {
		probe, err := h.Prober.Inspect(ctx, stagedPath)
		switch {
		case err == nil:
			duration = probe.DurationSeconds
		case errors.Is(err, media.ErrProberUnavailable):
			logger.Warn("media prober unavailable, storing zero duration")
		default:
			logger.Error("probe video duration", "error", err)
			respondMessage(ctx, w, http.StatusInternalServerError, "could not read video metadata")
			return
		}
	}

	staged, err := os.Open(stagedPath)
	if err != nil {
		logger.Error("reopen staged video", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store video")
		return
	}
	defer staged.Close()

	videoURL, err := h.Uploader.Upload(ctx, media.AssetVideo, videoHeader.Filename, staged)
	if err != nil {
		logger.Error("store video file", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store video")
		return
	}

	thumbURL, err := h.Uploader.Upload(ctx, media.AssetThumbnail, thumbHeader.Filename, thumbFile)
	if err != nil {
		logger.Error("store thumbnail", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store thumbnail")
		return
	}

	now := h.now()
	video := models.Video{
		ID:          models.NewKey(),
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       title,
		Description: description,
		Duration:    duration,
		IsPublished: true,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logger.Info("video published", "videoId", video.ID, "owner", owner)
	respondData(ctx, w, http.StatusCreated, video, "video published")
}

// Get handles GET /api/v1/videos/{videoId}. Fetching a video counts a view.
// Drafts are visible only to their owner.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return
	}

	item, err := h.Videos.FeedItem(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "video not found")
		return
	}

	if !item.IsPublished {
		viewer, err := principal(r, h.Sessions)
		if err != nil || viewer != item.Owner.ID {
			respondMessage(ctx, w, http.StatusNotFound, "video not found")
			return
		}
	}

	if err := h.Videos.IncrementViews(ctx, id); err != nil {
		logging.FromContext(ctx).Error("increment views", "videoId", id, "error", err)
	} else {
		item.Views++
	}

	respondData(ctx, w, http.StatusOK, item, "video fetched")
}

// Feed handles GET /api/v1/videos with query, sort and pagination
// parameters. A userId parameter scopes the feed to one channel; drafts are
// included only when the caller is that channel's owner.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	opts := repositories.VideoFeedOptions{
		Query:  strings.TrimSpace(query.Get("query")),
		SortBy: repositories.VideoSort(query.Get("sortBy")),
		Window: windowFromQuery(r),
	}
	if query.Get("sortType") == "asc" {
		opts.Ascending = true
	}

	if raw := strings.TrimSpace(query.Get("userId")); raw != "" {
		owner, err := models.ParseKey(raw)
		if err != nil {
			respondError(ctx, w, err, "userId is invalid")
			return
		}
		opts.Owner = owner
		if viewer, err := principal(r, h.Sessions); err == nil && viewer == owner {
			opts.IncludeUnpublished = true
		}
	}

	items, total, err := h.Videos.Feed(ctx, opts)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, pagination.New(items, opts.Window, total), "video feed fetched")
}

type videoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update handles PATCH /api/v1/videos/{videoId}. A JSON body updates title
// and description; a multipart body may additionally replace the thumbnail.
// Only the owner may update; ownership is checked against a fresh load,
// never a client-supplied owner.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, actor, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if !h.applyMultipartUpdate(w, r, &video) {
			return
		}
	} else {
		var req videoUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == nil && req.Description == nil {
			respondMessage(ctx, w, http.StatusBadRequest, "nothing to update")
			return
		}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				respondMessage(ctx, w, http.StatusBadRequest, "title must not be empty")
				return
			}
			video.Title = title
		}
		if req.Description != nil {
			video.Description = strings.TrimSpace(*req.Description)
		}
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("video updated", "videoId", video.ID, "actor", actor)
	respondData(ctx, w, http.StatusOK, video, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId}. Deleting a video removes
// its like edges and those of its comments.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, actor, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("video deleted", "videoId", video.ID, "actor", actor)
	respondData(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/{videoId}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, actor, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("video publish state toggled",
		"videoId", video.ID, "isPublished", video.IsPublished, "actor", actor)
	respondData(ctx, w, http.StatusOK, video, "publish state toggled")
}

// applyMultipartUpdate folds multipart form fields and an optional
// replacement thumbnail into the video, writing the error response itself on
// failure.
func (h VideoHandler) applyMultipartUpdate(w http.ResponseWriter, r *http.Request, video *models.Video) bool {
	ctx := r.Context()

	if err := r.ParseMultipartForm(publishMaxMemory); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return false
	}

	var changed bool
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		video.Title = title
		changed = true
	}
	if r.Form.Has("description") {
		video.Description = strings.TrimSpace(r.FormValue("description"))
		changed = true
	}

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	switch {
	case err == nil:
		defer thumbFile.Close()
		url, err := h.Uploader.Upload(ctx, media.AssetThumbnail, thumbHeader.Filename, thumbFile)
		if err != nil {
			logging.FromContext(ctx).Error("store thumbnail", "error", err)
			respondMessage(ctx, w, http.StatusInternalServerError, "could not store thumbnail")
			return false
		}
		video.Thumbnail = url
		changed = true
	case errors.Is(err, http.ErrMissingFile):
	default:
		respondMessage(ctx, w, http.StatusBadRequest, "invalid thumbnail upload")
		return false
	}

	if !changed {
		respondMessage(ctx, w, http.StatusBadRequest, "nothing to update")
		return false
	}
	return true
}

// loadOwned resolves the acting principal, freshly loads the addressed video
// and enforces ownership, writing the error response itself on failure.
func (h VideoHandler) loadOwned(w http.ResponseWriter, r *http.Request) (models.Video, models.Key, bool) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return models.Video{}, "", false
	}

	id, err := pathKey(r, "videoId")
	if err != nil {
		respondError(ctx, w, err, "video id is invalid")
		return models.Video{}, "", false
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "video not found")
		return models.Video{}, "", false
	}

	if err := authz.RequireOwner(video, actor); err != nil {
		respondError(ctx, w, err, "only the owner may modify this video")
		return models.Video{}, "", false
	}

	return video, actor, true
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// windowFromQuery reads page/limit query parameters, deferring clamping to
// Params.Normalize.
func windowFromQuery(r *http.Request) pagination.Params {
	var params pagination.Params
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = limit
	}
	return params.Normalize()
}

// stageUpload copies a multipart file to a temp path and returns the path
// with a cleanup func.
func stageUpload(file multipart.File) (string, func(), error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return "", nil, err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}
