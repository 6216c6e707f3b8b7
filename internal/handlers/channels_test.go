package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/models"
)

func TestChannelProfile(t *testing.T) {
	users := newUserRepoStub()
	users.profile = models.ChannelProfile{
		ID:               models.NewKey(),
		Username:         "jolanda",
		SubscribersCount: 7,
	}

	handler := ChannelHandler{Users: users, Sessions: newStubSessions(nil)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/jolanda", nil)
	req.SetPathValue("username", "jolanda")
	rec := httptest.NewRecorder()

	handler.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", env.Data)
	}
	if got := data["subscribersCount"]; got != float64(7) {
		t.Fatalf("expected subscribersCount 7 got %v", got)
	}
}

func TestDashboardStatsRequiresAuth(t *testing.T) {
	handler := ChannelHandler{Users: newUserRepoStub(), Videos: newVideoRepoStub(), Sessions: newStubSessions(nil)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()

	handler.DashboardStats(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestDashboardVideosIncludeDrafts(t *testing.T) {
	owner := models.NewKey()
	videos := newVideoRepoStub()
	sessions := newStubSessions(map[string]models.Key{"tok": owner})
	handler := ChannelHandler{Users: newUserRepoStub(), Videos: videos, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil), "tok")
	rec := httptest.NewRecorder()

	handler.DashboardVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if videos.lastOpts.Owner != owner || !videos.lastOpts.IncludeUnpublished {
		t.Fatalf("dashboard feed not scoped to the owner's full catalogue: %+v", videos.lastOpts)
	}
}
