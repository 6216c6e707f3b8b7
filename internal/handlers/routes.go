package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Credential
// endpoints carry their own limiter; all other mutations share the write
// limiter.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Uploader: deps.Uploader, Limiter: deps.AuthLimiter}
	videos := VideoHandler{Videos: deps.Videos, Sessions: deps.Sessions, Uploader: deps.Uploader, Prober: deps.Prober}
	comments := CommentHandler{Comments: deps.Comments, Sessions: deps.Sessions}
	tweets := TweetHandler{Tweets: deps.Tweets, Sessions: deps.Sessions}
	likes := LikeHandler{Engagement: deps.Engagement, Videos: deps.Videos, Sessions: deps.Sessions}
	subscriptions := SubscriptionHandler{Engagement: deps.Engagement, Views: deps.Subscriptions, Sessions: deps.Sessions}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Sessions: deps.Sessions}
	channels := ChannelHandler{Users: deps.Users, Videos: deps.Videos, Sessions: deps.Sessions}

	write := func(next http.HandlerFunc) http.HandlerFunc {
		return withRateLimit(deps.WriteLimiter, "write", next)
	}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/v1/users/me", auth.CurrentUser)

	mux.HandleFunc("GET /api/v1/videos", videos.Feed)
	mux.HandleFunc("POST /api/v1/videos", write(videos.Publish))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", videos.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", write(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", write(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}/toggle-publish", write(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/videos/{videoId}/comments", comments.List)
	mux.HandleFunc("POST /api/v1/videos/{videoId}/comments", write(comments.Add))
	mux.HandleFunc("PATCH /api/v1/comments/{commentId}", write(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/{commentId}", write(comments.Delete))

	mux.HandleFunc("POST /api/v1/tweets", write(tweets.Create))
	mux.HandleFunc("GET /api/v1/users/{userId}/tweets", tweets.ByUser)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", write(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", write(tweets.Delete))

	mux.HandleFunc("POST /api/v1/likes/video/{videoId}", write(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/comment/{commentId}", write(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/tweet/{tweetId}", write(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", likes.LikedVideos)

	mux.HandleFunc("POST /api/v1/subscriptions/channel/{channelId}", write(subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/channel/{channelId}/subscribers", subscriptions.Subscribers)
	mux.HandleFunc("GET /api/v1/subscriptions/user/{subscriberId}/channels", subscriptions.Subscribed)

	mux.HandleFunc("POST /api/v1/playlists", write(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", playlists.Get)
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", write(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", write(playlists.Delete))
	mux.HandleFunc("POST /api/v1/playlists/{playlistId}/videos/{videoId}", write(playlists.AddVideo))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", write(playlists.RemoveVideo))
	mux.HandleFunc("GET /api/v1/users/{userId}/playlists", playlists.ByUser)

	mux.HandleFunc("GET /api/v1/channels/{username}", channels.Profile)
	mux.HandleFunc("GET /api/v1/dashboard/stats", channels.DashboardStats)
	mux.HandleFunc("GET /api/v1/dashboard/videos", channels.DashboardVideos)
}
