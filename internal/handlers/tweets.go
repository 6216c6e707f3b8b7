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

// TweetHandler implements tweet endpoints.
type TweetHandler struct {
	Tweets   repositories.TweetRepository
	Sessions SessionManager
	NowFunc  func() time.Time
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	var req tweetRequest
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
	tweet := models.Tweet{
		ID:        models.NewKey(),
		Content:   content,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("tweet created", "tweetId", tweet.ID, "owner", owner)
	respondData(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ByUser handles GET /api/v1/users/{userId}/tweets, newest first.
func (h TweetHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := pathKey(r, "userId")
	if err != nil {
		respondError(ctx, w, err, "user id is invalid")
		return
	}

	window := windowFromQuery(r)
	items, total, err := h.Tweets.ByOwner(ctx, owner, window)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, pagination.New(items, window, total), "tweets fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = h.now()

	if err := h.Tweets.Update(ctx, tweet); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, tweet, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) loadOwned(w http.ResponseWriter, r *http.Request) (models.Tweet, bool) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return models.Tweet{}, false
	}

	id, err := pathKey(r, "tweetId")
	if err != nil {
		respondError(ctx, w, err, "tweet id is invalid")
		return models.Tweet{}, false
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "tweet not found")
		return models.Tweet{}, false
	}

	if err := authz.RequireOwner(tweet, actor); err != nil {
		respondError(ctx, w, err, "only the owner may modify this tweet")
		return models.Tweet{}, false
	}

	return tweet, true
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
