package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/viewtube/backend/internal/db"
	"github.com/viewtube/backend/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos
// and the feed/dashboard views derived from them.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.VideoFile, video.Thumbnail, video.Title, video.Description, video.Duration, video.Views, video.IsPublished, video.Owner, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by key.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id models.Key) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.Video
	if err := row.Scan(
		&video.ID, &video.VideoFile, &video.Thumbnail, &video.Title, &video.Description,
		&video.Duration, &video.Views, &video.IsPublished, &video.Owner, &video.CreatedAt, &video.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// Update modifies a video's mutable fields. The owner column is never updated.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail = $4, is_published = $5, updated_at = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.Thumbnail, video.IsPublished, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video along with its like edges and the like edges of its
// comments. Comments and playlist membership cascade at the schema level;
// likes point at a polymorphic target and are cleaned up here, in one
// transaction.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id models.Key) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete video: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes
        WHERE target_kind = 'comment'
          AND target_id IN (SELECT id FROM comments WHERE video_id = $1)
    `, id); err != nil {
		return fmt.Errorf("delete comment likes for video: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes
        WHERE target_kind = 'video' AND target_id = $1
    `, id); err != nil {
		return fmt.Errorf("delete video likes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete video: %w", err)
	}

	return nil
}

// IncrementViews bumps the monotonic view counter.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id models.Key) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

const videoFeedSelect = `
        SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration,
               v.views, v.is_published, v.created_at,
               u.id, u.username, u.full_name, u.avatar,
               (SELECT COUNT(*) FROM likes l WHERE l.target_kind = 'video' AND l.target_id = v.id) AS likes
        FROM videos v
        JOIN users u ON u.id = v.owner_id`

// FeedItem returns one video joined with its owner summary and like count.
func (r *PostgresVideoRepository) FeedItem(ctx context.Context, id models.Key) (models.VideoFeedItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoFeedItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, videoFeedSelect+`
        WHERE v.id = $1
    `, id)

	item, err := scanVideoFeedItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoFeedItem{}, ErrNotFound
		}
		return models.VideoFeedItem{}, fmt.Errorf("select video feed item: %w", err)
	}

	return item, nil
}

// Feed returns the windowed, sorted feed of published videos plus the total
// match count before windowing. When Owner is set the feed is restricted to
// that channel; IncludeUnpublished additionally surfaces drafts (the
// dashboard view).
func (r *PostgresVideoRepository) Feed(ctx context.Context, opts VideoFeedOptions) ([]models.VideoFeedItem, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	window := opts.Window.Normalize()

	var (
		where []string
		args  []any
	)
	if opts.Owner.IsZero() {
		where = append(where, "v.is_published")
	} else {
		args = append(args, opts.Owner)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
		if !opts.IncludeUnpublished {
			where = append(where, "v.is_published")
		}
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("v.title ILIKE $%d", len(args)))
	}

	query := videoFeedSelect + "\n        WHERE " + strings.Join(where, " AND ")
	query += "\n        ORDER BY " + videoOrderClause(opts.SortBy, opts.Ascending)
	args = append(args, window.Limit, window.Offset())
	query += fmt.Sprintf("\n        LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	var items []models.VideoFeedItem
	for rows.Next() {
		item, err := scanVideoFeedItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video feed item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate video feed: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM videos v WHERE " + strings.Join(where, " AND ")
	var total int
	if err := conn.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count video feed: %w", err)
	}

	return items, total, nil
}

// LikedBy expands the user's video like edges into full feed items, newest
// like first.
func (r *PostgresVideoRepository) LikedBy(ctx context.Context, user models.Key) ([]models.VideoFeedItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, videoFeedSelect+`
        JOIN likes my ON my.target_kind = 'video' AND my.target_id = v.id
        WHERE my.liked_by = $1
        ORDER BY my.created_at DESC
    `, user)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var items []models.VideoFeedItem
	for rows.Next() {
		item, err := scanVideoFeedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return items, nil
}

// ChannelStats aggregates the owner's videos, their like edges, and the
// channel's subscription edges.
func (r *PostgresVideoRepository) ChannelStats(ctx context.Context, owner models.Key) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT COALESCE(SUM(v.views), 0) AS total_views,
               COUNT(v.id) AS total_videos,
               COALESCE(SUM((SELECT COUNT(*) FROM likes l WHERE l.target_kind = 'video' AND l.target_id = v.id)), 0) AS total_likes,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1) AS total_subscribers
        FROM videos v
        WHERE v.owner_id = $1
    `, owner)

	var stats models.ChannelStats
	if err := row.Scan(&stats.TotalViews, &stats.TotalVideos, &stats.TotalLikes, &stats.TotalSubscribers); err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}

func videoOrderClause(sortBy VideoSort, ascending bool) string {
	column := "v.created_at"
	switch sortBy {
	case VideoSortViews:
		column = "v.views"
	case VideoSortDuration:
		column = "v.duration"
	case VideoSortTitle:
		column = "v.title"
	case VideoSortCreatedAt:
		column = "v.created_at"
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	return column + " " + direction
}

func scanVideoFeedItem(row pgx.Row) (models.VideoFeedItem, error) {
	var item models.VideoFeedItem
	err := row.Scan(
		&item.ID, &item.VideoFile, &item.Thumbnail, &item.Title, &item.Description, &item.Duration,
		&item.Views, &item.IsPublished, &item.CreatedAt,
		&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.Avatar,
		&item.LikesCount,
	)
	return item, err
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
