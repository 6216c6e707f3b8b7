package models

import "time"

// User represents an account within the ViewTube platform. Password holds the
// bcrypt hash and is never embedded into read views.
type User struct {
	ID           Key
	Username     string
	Email        string
	Password     string
	FullName     string
	Avatar       string
	CoverImage   string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Video is an uploaded video owned by a user. Duration is read from the
// uploaded media at publish time; Views only ever increases.
type Video struct {
	ID          Key
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    float64
	Views       int64
	IsPublished bool
	Owner       Key
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is a remark left on a video.
type Comment struct {
	ID        Key
	Content   string
	Video     Key
	Owner     Key
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tweet is a short standalone post by a user.
type Tweet struct {
	ID        Key
	Content   string
	Owner     Key
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Playlist is an ordered collection of videos curated by its owner. Video
// membership is a set; adding a video twice is a no-op.
type Playlist struct {
	ID          Key
	Name        string
	Description string
	Owner       Key
	Videos      []Key
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LikeTarget discriminates which entity kind a like points at. The kind is
// fixed when the edge is created and never reassigned.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether the target kind is one of the known entity kinds.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like is an edge from a user to exactly one video, comment, or tweet.
// At most one like exists per (LikedBy, TargetKind, TargetID).
type Like struct {
	ID         Key
	LikedBy    Key
	TargetKind LikeTarget
	TargetID   Key
	CreatedAt  time.Time
}

// Subscription is an edge from a subscriber to a channel (both users).
// At most one edge exists per (Subscriber, Channel) pair.
type Subscription struct {
	ID         Key
	Subscriber Key
	Channel    Key
	CreatedAt  time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (v Video) OwnerKey() Key    { return v.Owner }
func (c Comment) OwnerKey() Key  { return c.Owner }
func (t Tweet) OwnerKey() Key    { return t.Owner }
func (p Playlist) OwnerKey() Key { return p.Owner }
