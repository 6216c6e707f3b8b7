package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/viewtube/backend/internal/db"
	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/models"
)

// PostgresEngagementRepository persists like and subscription edges. The
// unique indexes on (liked_by, target_kind, target_id) and
// (subscriber_id, channel_id) serialize concurrent toggles per pair; inserts
// that lose the race surface engagement.ErrEdgeExists for the toggle engine
// to reconcile.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// FindLike looks up a like edge by its natural key.
func (r *PostgresEngagementRepository) FindLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) (models.Like, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, liked_by, target_kind, target_id, created_at
        FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
    `, likedBy, kind, target)

	var like models.Like
	if err := row.Scan(&like.ID, &like.LikedBy, &like.TargetKind, &like.TargetID, &like.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, engagement.ErrEdgeNotFound
		}
		return models.Like{}, fmt.Errorf("select like: %w", err)
	}

	return like, nil
}

// InsertLike stores a like edge, reporting a unique-key collision as
// engagement.ErrEdgeExists.
func (r *PostgresEngagementRepository) InsertLike(ctx context.Context, like models.Like) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, liked_by, target_kind, target_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, like.ID, like.LikedBy, like.TargetKind, like.TargetID, like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return engagement.ErrEdgeExists
			case "23503":
				return engagement.ErrTargetNotFound
			}
		}
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// DeleteLike removes a like edge by its natural key.
func (r *PostgresEngagementRepository) DeleteLike(ctx context.Context, likedBy models.Key, kind models.LikeTarget, target models.Key) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes
        WHERE liked_by = $1 AND target_kind = $2 AND target_id = $3
    `, likedBy, kind, target)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return engagement.ErrEdgeNotFound
	}

	return nil
}

// FindSubscription looks up a subscription edge by its pair.
func (r *PostgresEngagementRepository) FindSubscription(ctx context.Context, subscriber, channel models.Key) (models.Subscription, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriber, channel)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.Subscriber, &sub.Channel, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, engagement.ErrEdgeNotFound
		}
		return models.Subscription{}, fmt.Errorf("select subscription: %w", err)
	}

	return sub, nil
}

// InsertSubscription stores a subscription edge, reporting a unique-key
// collision as engagement.ErrEdgeExists.
func (r *PostgresEngagementRepository) InsertSubscription(ctx context.Context, sub models.Subscription) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, sub.ID, sub.Subscriber, sub.Channel, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return engagement.ErrEdgeExists
			case "23503":
				return engagement.ErrTargetNotFound
			}
		}
		return fmt.Errorf("insert subscription: %w", err)
	}

	return nil
}

// DeleteSubscription removes a subscription edge by its pair.
func (r *PostgresEngagementRepository) DeleteSubscription(ctx context.Context, subscriber, channel models.Key) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriber, channel)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return engagement.ErrEdgeNotFound
	}

	return nil
}

// TargetExists reports whether the toggle target resolves to a stored entity.
func (r *PostgresEngagementRepository) TargetExists(ctx context.Context, kind models.LikeTarget, key models.Key) (bool, error) {
	var table string
	switch kind {
	case models.LikeTargetVideo:
		table = "videos"
	case models.LikeTargetComment:
		table = "comments"
	case models.LikeTargetTweet:
		table = "tweets"
	default:
		return false, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", kind, err)
	}

	return exists, nil
}

// UserExists reports whether the key resolves to a stored user.
func (r *PostgresEngagementRepository) UserExists(ctx context.Context, key models.Key) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}

// Subscribers expands the channel's subscription edges into public user
// summaries, newest subscriber first.
func (r *PostgresEngagementRepository) Subscribers(ctx context.Context, channel models.Key) ([]models.OwnerSummary, error) {
	return r.subscriptionCounterparts(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channel)
}

// SubscribedChannels expands the user's outgoing subscription edges into
// public channel summaries, newest first.
func (r *PostgresEngagementRepository) SubscribedChannels(ctx context.Context, subscriber models.Key) ([]models.OwnerSummary, error) {
	return r.subscriptionCounterparts(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriber)
}

func (r *PostgresEngagementRepository) subscriptionCounterparts(ctx context.Context, query string, key models.Key) ([]models.OwnerSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("query subscription counterparts: %w", err)
	}
	defer rows.Close()

	var users []models.OwnerSummary
	for rows.Next() {
		var user models.OwnerSummary
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscription counterpart: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription counterparts: %w", err)
	}

	return users, nil
}

var _ EngagementRepository = (*PostgresEngagementRepository)(nil)
