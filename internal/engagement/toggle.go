package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viewtube/backend/internal/models"
)

// LikeStore persists like edges keyed by their natural (likedBy, kind, target)
// tuple. InsertLike must enforce uniqueness of the tuple and report a
// collision as ErrEdgeExists; FindLike and DeleteLike report a missing edge
// as ErrEdgeNotFound.
type LikeStore interface {
	FindLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (models.Like, error)
	InsertLike(ctx context.Context, like models.Like) error
	DeleteLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) error
}

// SubscriptionStore persists subscription edges keyed by (subscriber, channel),
// with the same uniqueness and sentinel contract as LikeStore.
type SubscriptionStore interface {
	FindSubscription(ctx context.Context, subscriber, channel models.Key) (models.Subscription, error)
	InsertSubscription(ctx context.Context, sub models.Subscription) error
	DeleteSubscription(ctx context.Context, subscriber, channel models.Key) error
}

// TargetResolver answers existence checks for toggle targets.
type TargetResolver interface {
	TargetExists(ctx context.Context, kind models.LikeTarget, key models.Key) (bool, error)
	UserExists(ctx context.Context, key models.Key) (bool, error)
}

// LikeToggle reports the outcome of a like toggle.
type LikeToggle struct {
	Created bool
	Like    models.Like
}

// SubscriptionToggle reports the outcome of a subscription toggle.
type SubscriptionToggle struct {
	Created      bool
	Subscription models.Subscription
}

// Service maintains likes and subscriptions as binary edges with toggle
// semantics: absent edges are created, present edges are removed. Per-pair
// serialization relies on the store's uniqueness constraint; an insert that
// loses a race resolves as the removal half of the toggle instead of
// surfacing the conflict.
type Service struct {
	likes   LikeStore
	subs    SubscriptionStore
	targets TargetResolver

	NowFunc func() time.Time
}

// NewService constructs the toggle engine over the provided stores.
func NewService(likes LikeStore, subs SubscriptionStore, targets TargetResolver) *Service {
	if likes == nil || subs == nil || targets == nil {
		panic("engagement: all stores must be provided")
	}
	return &Service{likes: likes, subs: subs, targets: targets}
}

// ToggleLike creates the like edge for (likedBy, kind, target) when absent and
// removes it when present. The target entity must exist.
func (s *Service) ToggleLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (LikeToggle, error) {
	if !kind.Valid() {
		return LikeToggle{}, fmt.Errorf("%q: %w", kind, ErrUnknownTargetKind)
	}

	exists, err := s.targets.TargetExists(ctx, kind, target)
	if err != nil {
		return LikeToggle{}, fmt.Errorf("resolve %s %s: %w", kind, target, err)
	}
	if !exists {
		return LikeToggle{}, fmt.Errorf("%s %s: %w", kind, target, ErrTargetNotFound)
	}

	_, err = s.likes.FindLike(ctx, likedBy, kind, target)
	switch {
	case err == nil:
		if err := s.removeLike(ctx, likedBy, kind, target); err != nil {
			return LikeToggle{}, err
		}
		return LikeToggle{Created: false}, nil
	case errors.Is(err, ErrEdgeNotFound):
		like := models.Like{
			ID:         models.NewKey(),
			LikedBy:    likedBy,
			TargetKind: kind,
			TargetID:   target,
			CreatedAt:  s.now(),
		}
		if err := s.likes.InsertLike(ctx, like); err != nil {
			if errors.Is(err, ErrEdgeExists) {
				// A concurrent toggle created the edge first; this call
				// becomes the removal half of the pair.
				if err := s.removeLike(ctx, likedBy, kind, target); err != nil {
					return LikeToggle{}, err
				}
				return LikeToggle{Created: false}, nil
			}
			return LikeToggle{}, fmt.Errorf("insert like: %w", err)
		}
		return LikeToggle{Created: true, Like: like}, nil
	default:
		return LikeToggle{}, fmt.Errorf("find like: %w", err)
	}
}

// ToggleSubscription creates or removes the (subscriber, channel) edge. The
// channel must resolve to an existing user and subscribing to oneself is
// rejected.
func (s *Service) ToggleSubscription(ctx context.Context, subscriber, channel models.Key) (SubscriptionToggle, error) {
	if subscriber == channel {
		return SubscriptionToggle{}, ErrSelfSubscription
	}

	exists, err := s.targets.UserExists(ctx, channel)
	if err != nil {
		return SubscriptionToggle{}, fmt.Errorf("resolve channel %s: %w", channel, err)
	}
	if !exists {
		return SubscriptionToggle{}, fmt.Errorf("channel %s: %w", channel, ErrTargetNotFound)
	}

	_, err = s.subs.FindSubscription(ctx, subscriber, channel)
	switch {
	case err == nil:
		if err := s.removeSubscription(ctx, subscriber, channel); err != nil {
			return SubscriptionToggle{}, err
		}
		return SubscriptionToggle{Created: false}, nil
	case errors.Is(err, ErrEdgeNotFound):
		sub := models.Subscription{
			ID:         models.NewKey(),
			Subscriber: subscriber,
			Channel:    channel,
			CreatedAt:  s.now(),
		}
		if err := s.subs.InsertSubscription(ctx, sub); err != nil {
			if errors.Is(err, ErrEdgeExists) {
				if err := s.removeSubscription(ctx, subscriber, channel); err != nil {
					return SubscriptionToggle{}, err
				}
				return SubscriptionToggle{Created: false}, nil
			}
			return SubscriptionToggle{}, fmt.Errorf("insert subscription: %w", err)
		}
		return SubscriptionToggle{Created: true, Subscription: sub}, nil
	default:
		return SubscriptionToggle{}, fmt.Errorf("find subscription: %w", err)
	}
}

// removeLike deletes the edge, treating an already-removed edge as success
// since a concurrent toggle may have beaten this one to the delete.
func (s *Service) removeLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) error {
	if err := s.likes.DeleteLike(ctx, likedBy, kind, target); err != nil && !errors.Is(err, ErrEdgeNotFound) {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (s *Service) removeSubscription(ctx context.Context, subscriber, channel models.Key) error {
	if err := s.subs.DeleteSubscription(ctx, subscriber, channel); err != nil && !errors.Is(err, ErrEdgeNotFound) {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
