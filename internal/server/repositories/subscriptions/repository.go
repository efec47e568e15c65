// Package subscriptions declares the read-only repository contract over
// subscription edges. Edges are created and deleted elsewhere; the account
// backend only counts them and tests membership.
package subscriptions

import "context"

// Repository defines read operations over subscription edges.
type Repository interface {
	// CountSubscribers returns the number of accounts following channelID.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// CountSubscriptions returns the number of channels subscriberID follows.
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)

	// Exists reports whether subscriberID follows channelID.
	Exists(ctx context.Context, subscriberID string, channelID string) (bool, error)
}
