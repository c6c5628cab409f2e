package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"

	"github.com/shopspring/decimal"
)

// EligibilityGuard decides whether a bidder may bid on an auction. It only
// reads state.
type EligibilityGuard struct {
	deposits   DepositLookup
	minDeposit decimal.Decimal
}

// NewEligibilityGuard creates a guard requiring minDeposit
func NewEligibilityGuard(deposits DepositLookup, minDeposit decimal.Decimal) *EligibilityGuard {
	return &EligibilityGuard{deposits: deposits, minDeposit: minDeposit}
}

// Check returns nil when bidder may bid amount on auction at now.
func (g *EligibilityGuard) Check(ctx context.Context, bidder models.Bidder, auction models.Auction, amount decimal.Decimal, now time.Time) error {
	if err := g.CheckParticipation(ctx, bidder, auction, now); err != nil {
		return err
	}
	if floor := auction.PriceFloor(); !amount.GreaterThan(floor) {
		return biddingerrors.TooLow(floor)
	}
	return nil
}

// CheckParticipation runs every check except the price comparison.
func (g *EligibilityGuard) CheckParticipation(ctx context.Context, bidder models.Bidder, auction models.Auction, now time.Time) error {
	if bidder.UserID == "" {
		return biddingerrors.Reject(biddingerrors.ErrNotAuthenticated, "sign in to bid")
	}
	if bidder.Role.IsOperator() {
		return biddingerrors.Reject(biddingerrors.ErrRoleForbidden, "%s accounts cannot bid", bidder.Role)
	}
	if err := openForBids(auction, now); err != nil {
		return err
	}

	balance, err := g.deposits.DepositBalance(ctx, bidder.UserID)
	if err != nil {
		return fmt.Errorf("eligibility: deposit lookup for user %s: %w", bidder.UserID, err)
	}
	if balance.LessThan(g.minDeposit) {
		return biddingerrors.Reject(biddingerrors.ErrInsufficientDeposit,
			"a deposit of at least %s is required, balance is %s", g.minDeposit.StringFixed(2), balance.StringFixed(2))
	}
	return nil
}

// openForBids rejects auctions outside their bidding window.
func openForBids(auction models.Auction, now time.Time) error {
	switch {
	case auction.Status == models.AuctionStatusEnded:
		return biddingerrors.Reject(biddingerrors.ErrAuctionEnded, "auction %s is closed", auction.AuctionID)
	case auction.Status == models.AuctionStatusActive && !now.Before(auction.EndTime):
		return biddingerrors.Reject(biddingerrors.ErrAuctionEnded, "auction %s closed at %s", auction.AuctionID, auction.EndTime.Format(time.RFC3339))
	case !auction.AcceptsBidsAt(now):
		return biddingerrors.Reject(biddingerrors.ErrAuctionNotActive, "auction %s opens at %s", auction.AuctionID, auction.StartTime.Format(time.RFC3339))
	}
	return nil
}
