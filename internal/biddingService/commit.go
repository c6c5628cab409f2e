package bidding

import (
	"context"
	"errors"
	"fmt"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// committed is a bid that is durable, together with the event describing
// the auction right after it.
type committed struct {
	bid   models.Bid
	event models.BidEvent
}

// commitBid atomically re-validates and records one bid.
func (s *BiddingService) commitBid(ctx context.Context, auctionID, userID string, amount decimal.Decimal, source models.BidSource) (committed, error) {
	var res committed
	err := s.withRetry(ctx, auctionID, func() error {
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			var err error
			res, err = s.applyBid(tx, userID, amount, source)
			return err
		})
	})
	if err != nil {
		return committed{}, err
	}
	return res, nil
}

// applyBid is the shared commit path for manual, proxy and buy-now bids.
// It must run inside RunInAuction.
func (s *BiddingService) applyBid(tx repository.AuctionTx, userID string, amount decimal.Decimal, source models.BidSource) (committed, error) {
	now := s.clock.Now()
	auction := tx.Auction()

	if err := openForBids(auction, now); err != nil {
		return committed{}, err
	}
	if floor := auction.PriceFloor(); !amount.GreaterThan(floor) {
		return committed{}, biddingerrors.TooLow(floor)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auction.AuctionID,
		UserID:    userID,
		Amount:    amount,
		Source:    source,
		CreatedAt: now,
	}
	if err := tx.AppendBid(bid); err != nil {
		return committed{}, err
	}

	count, err := tx.BidCount()
	if err != nil {
		return committed{}, err
	}
	auction = tx.Auction()

	return committed{
		bid: bid,
		event: models.BidEvent{
			AuctionID:    auction.AuctionID,
			CurrentBid:   bid.Amount,
			BidCount:     count,
			LastBidTime:  bid.CreatedAt,
			LastBidderID: bid.UserID,
			Source:       source,
			Status:       auction.Status,
			EndTime:      auction.EndTime,
		},
	}, nil
}

// withRetry reruns unit while the store reports a serialization conflict.
// unit must be a whole read-validate-write transaction.
func (s *BiddingService) withRetry(ctx context.Context, auctionID string, unit func() error) error {
	var err error
	for attempt := 0; attempt <= s.policy.CommitRetries; attempt++ {
		err = unit()
		if !errors.Is(err, biddingerrors.ErrStoreConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("service: auction %s: %w", auctionID, ctxErr)
		}
		utils.Warn("store conflict, retrying", map[string]any{
			"auction_id": auctionID,
			"attempt":    attempt + 1,
			"error":      err.Error(),
		})
	}
	return fmt.Errorf("service: auction %s gave up after %d attempts: %w", auctionID, s.policy.CommitRetries+1, err)
}
