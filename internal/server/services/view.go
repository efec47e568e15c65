package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
)

// ViewService builds the relational read views: the channel profile with
// subscription counts and the ordered watch history. Both are read-only
// recomputations over normalized records.
type ViewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewViewService constructs a ViewService.
func NewViewService(db *sql.DB, m repomanager.RepositoryManager) *ViewService {
	return &ViewService{db: db, repomanager: m}
}

// ChannelProfile aggregates the public profile of the channel with the given
// username. requesterID may be empty (unauthenticated caller); IsSubscribed
// is then always false. The account lookup, both counts, and the membership
// check run inside one read-only repeatable-read transaction so they see a
// single snapshot of the edge set.
func (s *ViewService) ChannelProfile(ctx context.Context, username string, requesterID string) (*models.ChannelProfile, error) {
	username = normalize(username)
	if username == "" {
		return nil, common.ErrorValidation
	}

	var profile *models.ChannelProfile

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := dbx.WithTx(ctx, s.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		accountRepo := s.repomanager.Accounts(tx)
		edgeRepo := s.repomanager.Subscriptions(tx)

		account, err := accountRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return common.ErrorInternal
		}

		subscribers, err := edgeRepo.CountSubscribers(ctx, account.ID)
		if err != nil {
			return common.ErrorInternal
		}

		subscribedTo, err := edgeRepo.CountSubscriptions(ctx, account.ID)
		if err != nil {
			return common.ErrorInternal
		}

		isSubscribed := false
		if requesterID != "" {
			isSubscribed, err = edgeRepo.Exists(ctx, requesterID, account.ID)
			if err != nil {
				return common.ErrorInternal
			}
		}

		profile = &models.ChannelProfile{
			FullName:                  account.FullName,
			Username:                  account.Username,
			Email:                     account.Email,
			AvatarURL:                 account.AvatarURL,
			CoverImageURL:             account.CoverImageURL,
			SubscribersCount:          subscribers,
			ChannelsSubscribedToCount: subscribedTo,
			IsSubscribed:              isSubscribed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// WatchHistory returns the requester's watch history, each entry joined to
// its video record and the owner's public fields. The join does not
// guarantee order, so the result is explicitly re-sorted into the stored
// sequence order before returning.
func (s *ViewService) WatchHistory(ctx context.Context, accountID string) ([]*models.WatchHistoryItem, error) {
	accountRepo := s.repomanager.Accounts(s.db)
	videoRepo := s.repomanager.Videos(s.db)

	ids, err := accountRepo.WatchHistoryIDs(ctx, accountID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	items, err := videoRepo.FindWithOwners(ctx, ids)
	if err != nil {
		return nil, common.ErrorInternal
	}

	byID := make(map[string]*models.WatchHistoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]*models.WatchHistoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}

	return ordered, nil
}
