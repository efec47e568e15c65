package models

import "time"

// Video is the minimal content record the account backend needs: enough to
// render a watch-history entry and to resolve the owning channel.
type Video struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"-"`
	Title           string    `json:"title"`
	ThumbnailURL    string    `json:"thumbnail"`
	DurationSeconds int64     `json:"duration"`
	Views           int64     `json:"views"`
	CreatedAt       time.Time `json:"createdAt"`
}

// VideoOwner is the projection of a video's owning account embedded in
// watch-history entries.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// WatchHistoryItem is one joined entry of the watch-history view.
type WatchHistoryItem struct {
	Video
	Owner VideoOwner `json:"owner"`
}
