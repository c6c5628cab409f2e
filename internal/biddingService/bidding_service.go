package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo      repository.AuctionLedger
	guard     *EligibilityGuard
	publisher EventPublisher
	clock     utils.Clock
	policy    Policy
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionLedger, deposits DepositLookup, publisher EventPublisher, clock utils.Clock, policy Policy) *BiddingService {
	return &BiddingService{
		repo:      repo,
		guard:     NewEligibilityGuard(deposits, policy.MinDeposit),
		publisher: publisher,
		clock:     clock,
		policy:    policy,
	}
}

// PlaceBid validates and records a manual bid, then lets standing proxies
// respond, applies anti-snipe and publishes the updates.
func (s *BiddingService) PlaceBid(ctx context.Context, bidder models.Bidder, auctionID string, amount decimal.Decimal) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing auctionID", biddingerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	if !models.IsStorableAmount(amount) {
		return models.Bid{}, fmt.Errorf("service: %w - bid amount %s has more than %d decimals", biddingerrors.ErrInvalidBid, amount, models.AmountScale)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if err := s.guard.Check(ctx, bidder, auction, amount, s.clock.Now()); err != nil {
		return models.Bid{}, fmt.Errorf("service: bid by user %s rejected: %w", bidder.UserID, err)
	}

	res, err := s.commitBid(ctx, auctionID, bidder.UserID, amount, models.BidSourceManual)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on auction %s by user %s: %w", auctionID, bidder.UserID, err)
	}

	s.afterManualBid(ctx, res)
	return res.bid, nil
}

// SetProxyBid registers or changes the bidder's ceiling on an auction and
// resolves the proxy competition right away.
func (s *BiddingService) SetProxyBid(ctx context.Context, bidder models.Bidder, auctionID string, maxAmount decimal.Decimal) (models.ProxyBid, error) {
	if auctionID == "" {
		return models.ProxyBid{}, fmt.Errorf("service: %w - missing auctionID", biddingerrors.ErrInvalidBid)
	}
	if !maxAmount.IsPositive() {
		return models.ProxyBid{}, fmt.Errorf("service: %w - non-positive maximum", biddingerrors.ErrInvalidBid)
	}
	if !models.IsStorableAmount(maxAmount) {
		return models.ProxyBid{}, fmt.Errorf("service: %w - maximum %s has more than %d decimals", biddingerrors.ErrInvalidBid, maxAmount, models.AmountScale)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.ProxyBid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if err := s.guard.CheckParticipation(ctx, bidder, auction, s.clock.Now()); err != nil {
		return models.ProxyBid{}, fmt.Errorf("service: proxy by user %s rejected: %w", bidder.UserID, err)
	}

	var proxy models.ProxyBid
	err = s.withRetry(ctx, auctionID, func() error {
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			now := s.clock.Now()
			current := tx.Auction()
			if err := openForBids(current, now); err != nil {
				return err
			}
			if err := checkCeiling(tx, bidder.UserID, maxAmount); err != nil {
				return err
			}

			var err error
			proxy, err = tx.UpsertProxyBid(models.ProxyBid{
				ProxyBidID: utils.GenerateID(),
				AuctionID:  auctionID,
				UserID:     bidder.UserID,
				MaxAmount:  maxAmount,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			return err
		})
	})
	if err != nil {
		return models.ProxyBid{}, fmt.Errorf("service: failed to set proxy on auction %s for user %s: %w", auctionID, bidder.UserID, err)
	}

	res, err := s.resolve(ctx, auctionID)
	if err != nil {
		s.reportSecondary(ctx, auctionID, "proxy resolution failed", err)
	} else if res != nil {
		s.afterSystemBid(ctx, res)
	}
	return proxy, nil
}

// checkCeiling requires a new ceiling to beat the current price. The
// leader may keep a ceiling equal to its own winning bid.
func checkCeiling(tx repository.AuctionTx, userID string, maxAmount decimal.Decimal) error {
	auction := tx.Auction()
	floor := auction.PriceFloor()
	if maxAmount.GreaterThan(floor) {
		return nil
	}

	winning, ok, err := tx.WinningBid()
	if err != nil {
		return err
	}
	if ok && winning.UserID == userID && maxAmount.Equal(winning.Amount) {
		return nil
	}
	return biddingerrors.TooLow(floor)
}

// BuyNow buys the item at its buy-now price and ends the auction.
func (s *BiddingService) BuyNow(ctx context.Context, bidder models.Bidder, auctionID string) (models.Purchase, error) {
	if auctionID == "" {
		return models.Purchase{}, fmt.Errorf("service: %w - missing auctionID", biddingerrors.ErrInvalidBid)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if err := s.guard.CheckParticipation(ctx, bidder, auction, s.clock.Now()); err != nil {
		return models.Purchase{}, fmt.Errorf("service: buy now by user %s rejected: %w", bidder.UserID, err)
	}

	var res committed
	err = s.withRetry(ctx, auctionID, func() error {
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			current := tx.Auction()
			if !current.BuyNowPrice.Valid {
				return biddingerrors.Reject(biddingerrors.ErrBuyNowUnavailable, "auction %s has no buy-now price", auctionID)
			}
			price := current.BuyNowPrice.Decimal
			if current.CurrentBid.Valid && !current.CurrentBid.Decimal.LessThan(price) {
				return biddingerrors.Reject(biddingerrors.ErrBuyNowUnavailable, "bidding has reached the buy-now price of %s", price.StringFixed(2))
			}

			var err error
			res, err = s.applyBid(tx, bidder.UserID, price, models.BidSourceBuyNow)
			if err != nil {
				return err
			}
			ended, err := endAuctionFor(tx, bidder.UserID)
			if err != nil {
				return err
			}
			res.event.Status = ended.Status
			return nil
		})
	})
	if err != nil {
		return models.Purchase{}, fmt.Errorf("service: buy now on auction %s by user %s: %w", auctionID, bidder.UserID, err)
	}

	utils.Info("auction bought now", map[string]any{
		"auction_id": auctionID,
		"user_id":    bidder.UserID,
		"amount":     res.bid.Amount.String(),
	})
	s.publisher.PublishBid(ctx, res.event)
	return models.Purchase{Bid: res.bid, WinnerID: bidder.UserID}, nil
}

func endAuctionFor(tx repository.AuctionTx, winnerID string) (models.Auction, error) {
	auction := tx.Auction()
	auction.Status = models.AuctionStatusEnded
	auction.WinnerID = &winnerID
	if err := tx.SaveAuction(auction); err != nil {
		return models.Auction{}, err
	}
	return auction, nil
}

// afterManualBid runs the secondary steps of a manual bid. Their failures
// never undo the committed bid.
func (s *BiddingService) afterManualBid(ctx context.Context, res committed) {
	system, err := s.resolve(ctx, res.bid.AuctionID)
	if err != nil {
		s.reportSecondary(ctx, res.bid.AuctionID, "proxy resolution failed", err)
	}

	s.extendAndPublish(ctx, res)
	if system != nil {
		s.extendAndPublish(ctx, *system)
	}
}

// afterSystemBid applies anti-snipe and publishes a proxy bid.
func (s *BiddingService) afterSystemBid(ctx context.Context, res *committed) {
	s.extendAndPublish(ctx, *res)
}

func (s *BiddingService) extendAndPublish(ctx context.Context, res committed) {
	auction, extended, err := s.CheckAndExtend(ctx, res.bid.AuctionID)
	if err != nil {
		s.reportSecondary(ctx, res.bid.AuctionID, "anti-snipe check failed", err)
	} else if extended {
		res.event.EndTime = auction.EndTime
	}
	s.publisher.PublishBid(ctx, res.event)
}

func (s *BiddingService) reportSecondary(ctx context.Context, auctionID, message string, err error) {
	utils.Error(message, map[string]any{
		"auction_id": auctionID,
		"error":      err.Error(),
	})
	s.publisher.PublishError(ctx, auctionID, err)
}

// GetAuctionState returns a consistent snapshot of the auction
func (s *BiddingService) GetAuctionState(ctx context.Context, auctionID string) (models.AuctionState, error) {
	if auctionID == "" {
		return models.AuctionState{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	var state models.AuctionState
	err := s.withRetry(ctx, auctionID, func() error {
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			auction := tx.Auction()
			count, err := tx.BidCount()
			if err != nil {
				return err
			}
			state = models.AuctionState{
				AuctionID:     auction.AuctionID,
				ItemID:        auction.ItemID,
				Status:        auction.Status,
				StartPrice:    auction.StartPrice,
				CurrentBid:    auction.CurrentBid,
				PriceToBeat:   auction.PriceFloor(),
				BuyNowPrice:   auction.BuyNowPrice,
				BidCount:      count,
				StartTime:     auction.StartTime,
				EndTime:       auction.EndTime,
				ExtendedCount: auction.ExtendedCount,
				WinnerID:      auction.WinnerID,
			}

			winning, ok, err := tx.WinningBid()
			if err != nil {
				return err
			}
			if ok {
				state.LastBidTime = &winning.CreatedAt
				state.LastBidderID = &winning.UserID
			}
			return nil
		})
	})
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("service: failed to get state of auction %s: %w", auctionID, err)
	}
	return state, nil
}

// GetBidsForAuction returns all bids for an auction
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// CreateAuction moves an item to auction in SCHEDULED state
func (s *BiddingService) CreateAuction(ctx context.Context, req models.NewAuction) (models.Auction, error) {
	switch {
	case req.ItemID == "":
		return models.Auction{}, fmt.Errorf("service: %w - missing itemID", biddingerrors.ErrInvalidBid)
	case !req.StartPrice.IsPositive():
		return models.Auction{}, fmt.Errorf("service: %w - non-positive start price", biddingerrors.ErrInvalidBid)
	case !models.IsStorableAmount(req.StartPrice):
		return models.Auction{}, fmt.Errorf("service: %w - start price has more than %d decimals", biddingerrors.ErrInvalidBid, models.AmountScale)
	case req.BuyNowPrice.Valid && !models.IsStorableAmount(req.BuyNowPrice.Decimal):
		return models.Auction{}, fmt.Errorf("service: %w - buy-now price has more than %d decimals", biddingerrors.ErrInvalidBid, models.AmountScale)
	case !req.EndTime.After(req.StartTime):
		return models.Auction{}, fmt.Errorf("service: %w - end time must be after start time", biddingerrors.ErrInvalidBid)
	case req.BuyNowPrice.Valid && !req.BuyNowPrice.Decimal.GreaterThan(req.StartPrice):
		return models.Auction{}, fmt.Errorf("service: %w - buy-now price must exceed start price", biddingerrors.ErrInvalidBid)
	}

	now := s.clock.Now()
	auction := models.Auction{
		AuctionID:       utils.GenerateID(),
		ItemID:          req.ItemID,
		StartPrice:      req.StartPrice,
		BuyNowPrice:     req.BuyNowPrice,
		Status:          models.AuctionStatusScheduled,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		AllowAutoExtend: req.AllowAutoExtend,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for item %s: %w", req.ItemID, err)
	}
	return auction, nil
}

// Activate opens a SCHEDULED auction once its start time has come.
// Activating an ACTIVE auction is a no-op.
func (s *BiddingService) Activate(ctx context.Context, auctionID string) (models.Auction, error) {
	var auction models.Auction
	err := s.withRetry(ctx, auctionID, func() error {
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			auction = tx.Auction()
			now := s.clock.Now()
			switch auction.Status {
			case models.AuctionStatusActive:
				return nil
			case models.AuctionStatusEnded:
				return fmt.Errorf("%w - auction %s has ended", biddingerrors.ErrInvalidTransition, auctionID)
			}
			if now.Before(auction.StartTime) {
				return biddingerrors.Reject(biddingerrors.ErrAuctionNotActive, "auction %s opens at %s", auctionID, auction.StartTime.Format(time.RFC3339))
			}
			auction.Status = models.AuctionStatusActive
			auction.UpdatedAt = now
			return tx.SaveAuction(auction)
		})
	})
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to activate auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// CloseExpired ends an ACTIVE auction whose end time has passed and awards
// it to the leader. It reports whether the auction was closed by this call.
func (s *BiddingService) CloseExpired(ctx context.Context, auctionID string) (models.Auction, bool, error) {
	var (
		auction models.Auction
		closed  bool
	)
	err := s.withRetry(ctx, auctionID, func() error {
		closed = false
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			auction = tx.Auction()
			if auction.Status != models.AuctionStatusActive || s.clock.Now().Before(auction.EndTime) {
				return nil
			}

			winning, ok, err := tx.WinningBid()
			if err != nil {
				return err
			}
			auction.Status = models.AuctionStatusEnded
			if ok {
				auction.WinnerID = &winning.UserID
			}
			if err := tx.SaveAuction(auction); err != nil {
				return err
			}
			closed = true
			return nil
		})
	})
	if err != nil {
		return models.Auction{}, false, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}
	return auction, closed, nil
}

// ForceEnd lets an operator end an auction. With an empty winnerID the
// current leader wins.
func (s *BiddingService) ForceEnd(ctx context.Context, auctionID, winnerID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	var auction models.Auction
	err := s.withRetry(ctx, auctionID, func() error {
		var err error
		auction, err = s.repo.ForceEnd(ctx, auctionID, winnerID)
		return err
	})
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to end auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns the auctions in status
func (s *BiddingService) ListAuctions(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error) {
	auctions, err := s.repo.ListAuctionsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list %s auctions: %w", status, err)
	}
	return auctions, nil
}
