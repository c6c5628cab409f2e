package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// shouldExtend reports whether a bid landing at now extends the auction.
func shouldExtend(auction models.Auction, now time.Time, policy Policy) bool {
	if !auction.AllowAutoExtend || auction.Status != models.AuctionStatusActive {
		return false
	}
	if policy.MaxExtensions > 0 && auction.ExtendedCount >= policy.MaxExtensions {
		return false
	}
	left := auction.EndTime.Sub(now)
	return left > 0 && left <= policy.SnipeWindow
}

// CheckAndExtend pushes the end time back by the extension duration when
// the auction is inside its closing window. It reports whether it extended.
func (s *BiddingService) CheckAndExtend(ctx context.Context, auctionID string) (models.Auction, bool, error) {
	var (
		auction  models.Auction
		extended bool
	)
	err := s.withRetry(ctx, auctionID, func() error {
		extended = false
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			auction = tx.Auction()
			if !shouldExtend(auction, s.clock.Now(), s.policy) {
				return nil
			}
			auction.EndTime = auction.EndTime.Add(s.policy.SnipeExtension)
			auction.ExtendedCount++
			if err := tx.SaveAuction(auction); err != nil {
				return err
			}
			extended = true
			return nil
		})
	})
	if err != nil {
		return models.Auction{}, false, fmt.Errorf("service: extend auction %s: %w", auctionID, err)
	}

	if extended {
		utils.Info("auction extended", map[string]any{
			"auction_id":     auctionID,
			"end_time":       auction.EndTime.Format(time.RFC3339),
			"extended_count": auction.ExtendedCount,
		})
	}
	return auction, extended, nil
}
