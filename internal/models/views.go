package models

import "time"

// OwnerSummary is the public projection of a user embedded into feed items.
// It deliberately carries no credential fields.
type OwnerSummary struct {
	ID       Key    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile is the public view of a user's channel, including
// subscription counts derived from the subscription edges at read time.
type ChannelProfile struct {
	ID                        Key    `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// ChannelStats aggregates a channel owner's videos for the dashboard.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalVideos      int   `json:"totalVideos"`
	TotalLikes       int   `json:"totalLikes"`
	TotalSubscribers int   `json:"totalSubscribers"`
}

// VideoFeedItem is a video joined with its owner summary and like count.
type VideoFeedItem struct {
	ID          Key          `json:"id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	IsPublished bool         `json:"isPublished"`
	Owner       OwnerSummary `json:"owner"`
	LikesCount  int          `json:"likesCount"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// CommentFeedItem is a comment joined with its owner summary and like count.
type CommentFeedItem struct {
	ID         Key          `json:"id"`
	Content    string       `json:"content"`
	Video      Key          `json:"video"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int          `json:"likesCount"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// TweetFeedItem is a tweet joined with its owner summary and like count.
type TweetFeedItem struct {
	ID         Key          `json:"id"`
	Content    string       `json:"content"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int          `json:"likesCount"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// PlaylistDetail is a playlist expanded with full feed items for its videos,
// in playlist order.
type PlaylistDetail struct {
	ID          Key             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Owner       Key             `json:"owner"`
	Videos      []VideoFeedItem `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Public strips credential fields from a user record for API responses.
func (u User) Public() OwnerSummary {
	return OwnerSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}
