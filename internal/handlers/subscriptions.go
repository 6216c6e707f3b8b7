package handlers

import (
	"net/http"

	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
)

// SubscriptionHandler flips subscription edges and lists the users on either
// side of them.
type SubscriptionHandler struct {
	Engagement ToggleEngine
	Views      SubscriptionViews
	Sessions   SessionManager
}

type subscriptionToggleResponse struct {
	Subscribed bool `json:"subscribed"`
}

// Toggle handles POST /api/v1/subscriptions/channel/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	channel, err := pathKey(r, "channelId")
	if err != nil {
		respondError(ctx, w, err, "channel id is invalid")
		return
	}

	result, err := h.Engagement.ToggleSubscription(ctx, actor, channel)
	if err != nil {
		respondError(ctx, w, err, "could not toggle subscription")
		return
	}

	logging.FromContext(ctx).Info("subscription toggled",
		"subscriber", actor, "channel", channel, "subscribed", result.Created)

	message := "unsubscribed"
	if result.Created {
		message = "subscribed"
	}
	respondData(ctx, w, http.StatusOK, subscriptionToggleResponse{Subscribed: result.Created}, message)
}

// Subscribers handles GET /api/v1/subscriptions/channel/{channelId}/subscribers.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := pathKey(r, "channelId")
	if err != nil {
		respondError(ctx, w, err, "channel id is invalid")
		return
	}

	users, err := h.Views.Subscribers(ctx, channel)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}
	if users == nil {
		users = []models.OwnerSummary{}
	}

	respondData(ctx, w, http.StatusOK, users, "subscribers fetched")
}

// Subscribed handles GET /api/v1/subscriptions/user/{subscriberId}/channels.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriber, err := pathKey(r, "subscriberId")
	if err != nil {
		respondError(ctx, w, err, "subscriber id is invalid")
		return
	}

	channels, err := h.Views.SubscribedChannels(ctx, subscriber)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}
	if channels == nil {
		channels = []models.OwnerSummary{}
	}

	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched")
}
