package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/models"
)

type toggleEngineStub struct {
	likeResult engagement.LikeToggle
	likeErr    error
	subResult  engagement.SubscriptionToggle
	subErr     error

	lastActor  models.Key
	lastKind   models.LikeTarget
	lastTarget models.Key
}

func (s *toggleEngineStub) ToggleLike(_ context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (engagement.LikeToggle, error) {
	s.lastActor = likedBy
	s.lastKind = kind
	s.lastTarget = target
	return s.likeResult, s.likeErr
}

func (s *toggleEngineStub) ToggleSubscription(_ context.Context, subscriber, channel models.Key) (engagement.SubscriptionToggle, error) {
	s.lastActor = subscriber
	s.lastTarget = channel
	return s.subResult, s.subErr
}

func TestLikeToggleRequiresAuth(t *testing.T) {
	handler := LikeHandler{Engagement: &toggleEngineStub{}, Sessions: newStubSessions(nil)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/video/whatever", nil)
	req.SetPathValue("videoId", models.NewKey().String())
	rec := httptest.NewRecorder()

	handler.ToggleVideo(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestLikeToggleVideo(t *testing.T) {
	actor := models.NewKey()
	target := models.NewKey()
	engine := &toggleEngineStub{likeResult: engagement.LikeToggle{Created: true}}
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := LikeHandler{Engagement: engine, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/likes/video/"+target.String(), nil), "tok")
	req.SetPathValue("videoId", target.String())
	rec := httptest.NewRecorder()

	handler.ToggleVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.lastActor != actor || engine.lastKind != models.LikeTargetVideo || engine.lastTarget != target {
		t.Fatalf("unexpected toggle call: actor=%s kind=%s target=%s", engine.lastActor, engine.lastKind, engine.lastTarget)
	}

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", env.Data)
	}
	if liked, _ := data["liked"].(bool); !liked {
		t.Fatalf("expected liked=true in response, got %v", data["liked"])
	}
}

func TestLikeToggleInvalidTargetKey(t *testing.T) {
	sessions := newStubSessions(map[string]models.Key{"tok": models.NewKey()})
	handler := LikeHandler{Engagement: &toggleEngineStub{}, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/likes/tweet/not-a-key", nil), "tok")
	req.SetPathValue("tweetId", "not-a-key")
	rec := httptest.NewRecorder()

	handler.ToggleTweet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestLikeToggleMissingTarget(t *testing.T) {
	engine := &toggleEngineStub{likeErr: engagement.ErrTargetNotFound}
	sessions := newStubSessions(map[string]models.Key{"tok": models.NewKey()})
	handler := LikeHandler{Engagement: engine, Sessions: sessions}

	target := models.NewKey()
	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/likes/comment/"+target.String(), nil), "tok")
	req.SetPathValue("commentId", target.String())
	rec := httptest.NewRecorder()

	handler.ToggleComment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestLikedVideosReturnsEmptyList(t *testing.T) {
	actor := models.NewKey()
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	videos := newVideoRepoStub()
	handler := LikeHandler{Engagement: &toggleEngineStub{}, Videos: videos, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil), "tok")
	rec := httptest.NewRecorder()

	handler.LikedVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	items, ok := env.Data.([]any)
	if !ok {
		t.Fatalf("expected array data, got %T", env.Data)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}
