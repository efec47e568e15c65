// Package models contains the server-side domain types and their public
// read projections. Secret fields (password hash, stored refresh token)
// exist only on the internal types and are structurally absent from every
// projection that can be serialized.
package models

import "time"

// Account is the full identity record as stored. Never serialize this type
// directly; use Public() for anything that leaves the server.
type Account struct {
	ID                  string
	Username            string
	Email               string
	FullName            string
	AvatarURL           string
	CoverImageURL       string
	PasswordHash        string
	CurrentRefreshToken string
	CreatedAt           time.Time
}

// AccountPublic is the externally visible projection of an Account.
type AccountPublic struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public returns the read projection of the account.
func (a *Account) Public() *AccountPublic {
	return &AccountPublic{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		FullName:      a.FullName,
		AvatarURL:     a.AvatarURL,
		CoverImageURL: a.CoverImageURL,
		CreatedAt:     a.CreatedAt,
	}
}

// Subscription is a directed edge: Subscriber follows Channel.
type Subscription struct {
	SubscriberID string
	ChannelID    string
}

// ChannelProfile is the aggregated public view of a channel, including
// subscription counts relative to the requesting identity.
type ChannelProfile struct {
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	AvatarURL                 string `json:"avatar"`
	CoverImageURL             string `json:"coverImage,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}
