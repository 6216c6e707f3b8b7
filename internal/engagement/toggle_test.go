package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/viewtube/backend/internal/models"
)

type likeKey struct {
	likedBy models.Key
	kind    models.LikeTarget
	target  models.Key
}

type subKey struct {
	subscriber models.Key
	channel    models.Key
}

// inMemoryEdgeStore implements LikeStore, SubscriptionStore, and
// TargetResolver over plain maps.
type inMemoryEdgeStore struct {
	likes map[likeKey]models.Like
	subs  map[subKey]models.Subscription

	users    map[models.Key]struct{}
	videos   map[models.Key]struct{}
	comments map[models.Key]struct{}
	tweets   map[models.Key]struct{}

	insertLikeErr error
	insertSubErr  error
	deleteLikeErr error
}

func newInMemoryEdgeStore() *inMemoryEdgeStore {
	return &inMemoryEdgeStore{
		likes:    make(map[likeKey]models.Like),
		subs:     make(map[subKey]models.Subscription),
		users:    make(map[models.Key]struct{}),
		videos:   make(map[models.Key]struct{}),
		comments: make(map[models.Key]struct{}),
		tweets:   make(map[models.Key]struct{}),
	}
}

func (s *inMemoryEdgeStore) FindLike(_ context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (models.Like, error) {
	like, ok := s.likes[likeKey{likedBy, kind, target}]
	if !ok {
		return models.Like{}, ErrEdgeNotFound
	}
	return like, nil
}

func (s *inMemoryEdgeStore) InsertLike(_ context.Context, like models.Like) error {
	if s.insertLikeErr != nil {
		return s.insertLikeErr
	}
	key := likeKey{like.LikedBy, like.TargetKind, like.TargetID}
	if _, ok := s.likes[key]; ok {
		return ErrEdgeExists
	}
	s.likes[key] = like
	return nil
}

func (s *inMemoryEdgeStore) DeleteLike(_ context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) error {
	if s.deleteLikeErr != nil {
		return s.deleteLikeErr
	}
	key := likeKey{likedBy, kind, target}
	if _, ok := s.likes[key]; !ok {
		return ErrEdgeNotFound
	}
	delete(s.likes, key)
	return nil
}

func (s *inMemoryEdgeStore) FindSubscription(_ context.Context, subscriber, channel models.Key) (models.Subscription, error) {
	sub, ok := s.subs[subKey{subscriber, channel}]
	if !ok {
		return models.Subscription{}, ErrEdgeNotFound
	}
	return sub, nil
}

func (s *inMemoryEdgeStore) InsertSubscription(_ context.Context, sub models.Subscription) error {
	if s.insertSubErr != nil {
		return s.insertSubErr
	}
	key := subKey{sub.Subscriber, sub.Channel}
	if _, ok := s.subs[key]; ok {
		return ErrEdgeExists
	}
	s.subs[key] = sub
	return nil
}

func (s *inMemoryEdgeStore) DeleteSubscription(_ context.Context, subscriber, channel models.Key) error {
	key := subKey{subscriber, channel}
	if _, ok := s.subs[key]; !ok {
		return ErrEdgeNotFound
	}
	delete(s.subs, key)
	return nil
}

func (s *inMemoryEdgeStore) TargetExists(_ context.Context, kind models.LikeTarget, key models.Key) (bool, error) {
	switch kind {
	case models.LikeTargetVideo:
		_, ok := s.videos[key]
		return ok, nil
	case models.LikeTargetComment:
		_, ok := s.comments[key]
		return ok, nil
	case models.LikeTargetTweet:
		_, ok := s.tweets[key]
		return ok, nil
	}
	return false, nil
}

func (s *inMemoryEdgeStore) UserExists(_ context.Context, key models.Key) (bool, error) {
	_, ok := s.users[key]
	return ok, nil
}

func TestToggleLikeCreatesThenRemoves(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	user := models.NewKey()
	video := models.NewKey()
	store.videos[video] = struct{}{}

	first, err := svc.ToggleLike(ctx, user, models.LikeTargetVideo, video)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Created {
		t.Fatalf("expected first toggle to create the edge")
	}
	if first.Like.LikedBy != user || first.Like.TargetID != video {
		t.Fatalf("unexpected edge %+v", first.Like)
	}
	if len(store.likes) != 1 {
		t.Fatalf("expected one stored edge, got %d", len(store.likes))
	}

	second, err := svc.ToggleLike(ctx, user, models.LikeTargetVideo, video)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Created {
		t.Fatalf("expected second toggle to remove the edge")
	}
	if len(store.likes) != 0 {
		t.Fatalf("expected edge removed, got %d stored", len(store.likes))
	}
}

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	user := models.NewKey()
	tweet := models.NewKey()
	store.tweets[tweet] = struct{}{}

	for i := 0; i < 7; i++ {
		if _, err := svc.ToggleLike(ctx, user, models.LikeTargetTweet, tweet); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if len(store.likes) > 1 {
			t.Fatalf("toggle %d produced %d edges for one pair", i, len(store.likes))
		}
	}

	// Odd number of toggles leaves the edge present.
	if len(store.likes) != 1 {
		t.Fatalf("expected edge present after odd toggles, got %d", len(store.likes))
	}
}

func TestToggleLikeTargetMissing(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	_, err := svc.ToggleLike(ctx, models.NewKey(), models.LikeTargetVideo, models.NewKey())
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestToggleLikeUnknownKind(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	_, err := svc.ToggleLike(ctx, models.NewKey(), models.LikeTarget("playlist"), models.NewKey())
	if !errors.Is(err, ErrUnknownTargetKind) {
		t.Fatalf("expected ErrUnknownTargetKind, got %v", err)
	}
}

func TestToggleLikeLostInsertRaceResolvesAsRemoval(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	user := models.NewKey()
	video := models.NewKey()
	store.videos[video] = struct{}{}

	// Simulate another request creating the edge between this request's
	// lookup and insert.
	store.insertLikeErr = ErrEdgeExists

	result, err := svc.ToggleLike(ctx, user, models.LikeTargetVideo, video)
	if err != nil {
		t.Fatalf("toggle after lost race: %v", err)
	}
	if result.Created {
		t.Fatalf("expected lost insert race to resolve as removal")
	}
}

func TestToggleLikeDeleteOfRemovedEdgeIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	user := models.NewKey()
	video := models.NewKey()
	store.videos[video] = struct{}{}
	store.likes[likeKey{user, models.LikeTargetVideo, video}] = models.Like{LikedBy: user}

	// Another request removes the edge between lookup and delete.
	store.deleteLikeErr = ErrEdgeNotFound

	result, err := svc.ToggleLike(ctx, user, models.LikeTargetVideo, video)
	if err != nil {
		t.Fatalf("toggle after concurrent removal: %v", err)
	}
	if result.Created {
		t.Fatalf("expected removal outcome")
	}
}

func TestToggleSubscription(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	subscriber := models.NewKey()
	channel := models.NewKey()
	store.users[channel] = struct{}{}

	for i := 0; i < 3; i++ {
		if _, err := svc.ToggleSubscription(ctx, subscriber, channel); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	if len(store.subs) != 1 {
		t.Fatalf("expected net subscribed state after three toggles, got %d edges", len(store.subs))
	}
}

func TestToggleSubscriptionRejectsSelf(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	user := models.NewKey()
	store.users[user] = struct{}{}

	_, err := svc.ToggleSubscription(ctx, user, user)
	if !errors.Is(err, ErrSelfSubscription) {
		t.Fatalf("expected ErrSelfSubscription, got %v", err)
	}
	if len(store.subs) != 0 {
		t.Fatalf("expected no edge stored")
	}
}

func TestToggleSubscriptionChannelMissing(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	_, err := svc.ToggleSubscription(ctx, models.NewKey(), models.NewKey())
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestToggleSubscriptionLostInsertRace(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryEdgeStore()
	svc := NewService(store, store, store)

	subscriber := models.NewKey()
	channel := models.NewKey()
	store.users[channel] = struct{}{}
	store.insertSubErr = ErrEdgeExists

	result, err := svc.ToggleSubscription(ctx, subscriber, channel)
	if err != nil {
		t.Fatalf("toggle after lost race: %v", err)
	}
	if result.Created {
		t.Fatalf("expected lost insert race to resolve as removal")
	}
}
