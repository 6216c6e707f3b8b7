package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/models"
)

type subscriptionViewsStub struct {
	subscribers []models.OwnerSummary
	channels    []models.OwnerSummary
	err         error
}

func (s *subscriptionViewsStub) Subscribers(_ context.Context, _ models.Key) ([]models.OwnerSummary, error) {
	return s.subscribers, s.err
}

func (s *subscriptionViewsStub) SubscribedChannels(_ context.Context, _ models.Key) ([]models.OwnerSummary, error) {
	return s.channels, s.err
}

func TestSubscriptionToggle(t *testing.T) {
	actor := models.NewKey()
	channel := models.NewKey()
	engine := &toggleEngineStub{subResult: engagement.SubscriptionToggle{Created: true}}
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := SubscriptionHandler{Engagement: engine, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+channel.String(), nil), "tok")
	req.SetPathValue("channelId", channel.String())
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.lastActor != actor || engine.lastTarget != channel {
		t.Fatalf("unexpected toggle call: actor=%s channel=%s", engine.lastActor, engine.lastTarget)
	}

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", env.Data)
	}
	if subscribed, _ := data["subscribed"].(bool); !subscribed {
		t.Fatalf("expected subscribed=true, got %v", data["subscribed"])
	}
}

func TestSubscriptionToggleSelf(t *testing.T) {
	actor := models.NewKey()
	engine := &toggleEngineStub{subErr: engagement.ErrSelfSubscription}
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := SubscriptionHandler{Engagement: engine, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+actor.String(), nil), "tok")
	req.SetPathValue("channelId", actor.String())
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestSubscriptionToggleRequiresAuth(t *testing.T) {
	handler := SubscriptionHandler{Engagement: &toggleEngineStub{}, Sessions: newStubSessions(nil)}

	channel := models.NewKey()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/channel/"+channel.String(), nil)
	req.SetPathValue("channelId", channel.String())
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestSubscribersList(t *testing.T) {
	views := &subscriptionViewsStub{subscribers: []models.OwnerSummary{
		{ID: models.NewKey(), Username: "hana"},
		{ID: models.NewKey(), Username: "ivo"},
	}}
	handler := SubscriptionHandler{Views: views, Sessions: newStubSessions(nil)}

	channel := models.NewKey()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/channel/"+channel.String()+"/subscribers", nil)
	req.SetPathValue("channelId", channel.String())
	rec := httptest.NewRecorder()

	handler.Subscribers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	items, ok := env.Data.([]any)
	if !ok {
		t.Fatalf("expected array data, got %T", env.Data)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(items))
	}
}

func TestSubscribedChannelsEmpty(t *testing.T) {
	handler := SubscriptionHandler{Views: &subscriptionViewsStub{}, Sessions: newStubSessions(nil)}

	subscriber := models.NewKey()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/user/"+subscriber.String()+"/channels", nil)
	req.SetPathValue("subscriberId", subscriber.String())
	rec := httptest.NewRecorder()

	handler.Subscribed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	items, ok := env.Data.([]any)
	if !ok {
		t.Fatalf("expected empty array data, got %T", env.Data)
	}
	if len(items) != 0 {
		t.Fatalf("expected no channels, got %d", len(items))
	}
}
