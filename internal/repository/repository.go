package repository

import (
	"context"
	"fmt"
	"sort"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionLedger is the sole writer of auction, bid and proxy bid state.
// Every mutation of a live auction happens inside RunInAuction.
type AuctionLedger interface {
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	ListProxyBids(ctx context.Context, auctionID string) ([]model.ProxyBid, error)
	ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error)
	// RunInAuction executes fn as one serializable unit against a single
	// auction. If fn returns an error nothing it staged is written.
	RunInAuction(ctx context.Context, auctionID string, fn func(tx AuctionTx) error) error
	// ForceEnd ends the auction. With an empty winnerID the current leader
	// wins. Ending an ENDED auction is a no-op.
	ForceEnd(ctx context.Context, auctionID, winnerID string) (model.Auction, error)
}

// AuctionTx is the view of one auction inside an atomic unit
type AuctionTx interface {
	Auction() model.Auction
	WinningBid() (model.Bid, bool, error)
	BidCount() (int, error)
	// ProxyBids returns standing proxies ordered by MaxAmount descending,
	// earliest registration first on ties.
	ProxyBids() ([]model.ProxyBid, error)
	// AppendBid records bid and sets the auction's current bid to its amount.
	AppendBid(bid model.Bid) error
	SaveAuction(auction model.Auction) error
	UpsertProxyBid(proxy model.ProxyBid) (model.ProxyBid, error)
}

// checkAppend guards the ledger invariant that bid amounts strictly increase.
func checkAppend(auction model.Auction, bid model.Bid) error {
	if bid.AuctionID != auction.AuctionID {
		return fmt.Errorf("append bid to auction %s: %w - bid belongs to %s", auction.AuctionID, biddingerrors.ErrInvalidBid, bid.AuctionID)
	}
	if auction.Status == model.AuctionStatusEnded {
		return fmt.Errorf("append bid to auction %s: %w", auction.AuctionID, biddingerrors.ErrAuctionEnded)
	}
	if !bid.Amount.GreaterThan(auction.PriceFloor()) {
		return fmt.Errorf("append bid to auction %s: %w", auction.AuctionID, biddingerrors.TooLow(auction.PriceFloor()))
	}
	return nil
}

// checkUpdate rejects writes that would move endTime backwards, shrink the
// extension counter, rewrite the current bid or step the status backwards.
func checkUpdate(old, next model.Auction) error {
	if next.AuctionID != old.AuctionID {
		return fmt.Errorf("save auction %s: %w - id changed", old.AuctionID, biddingerrors.ErrInvalidTransition)
	}
	if next.EndTime.Before(old.EndTime) {
		return fmt.Errorf("save auction %s: %w - end time moved backwards", old.AuctionID, biddingerrors.ErrInvalidTransition)
	}
	if next.ExtendedCount < old.ExtendedCount {
		return fmt.Errorf("save auction %s: %w - extension count decreased", old.AuctionID, biddingerrors.ErrInvalidTransition)
	}
	if !nullEqual(next.CurrentBid, old.CurrentBid) {
		return fmt.Errorf("save auction %s: %w - current bid is only set by AppendBid", old.AuctionID, biddingerrors.ErrInvalidTransition)
	}
	if next.Status != old.Status && !old.Status.CanTransition(next.Status) {
		return fmt.Errorf("save auction %s: %w - %s to %s", old.AuctionID, biddingerrors.ErrInvalidTransition, old.Status, next.Status)
	}
	return nil
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// endAuction applies a force-end inside tx.
func endAuction(tx AuctionTx, winnerID string) (model.Auction, error) {
	auction := tx.Auction()
	if auction.Status == model.AuctionStatusEnded {
		return auction, nil
	}

	if winnerID == "" {
		winning, ok, err := tx.WinningBid()
		if err != nil {
			return model.Auction{}, err
		}
		if ok {
			winnerID = winning.UserID
		}
	}

	auction.Status = model.AuctionStatusEnded
	if winnerID != "" {
		auction.WinnerID = &winnerID
	}
	if err := tx.SaveAuction(auction); err != nil {
		return model.Auction{}, err
	}
	return auction, nil
}

func sortProxyBids(proxies []model.ProxyBid) {
	sort.SliceStable(proxies, func(i, j int) bool {
		if !proxies[i].MaxAmount.Equal(proxies[j].MaxAmount) {
			return proxies[i].MaxAmount.GreaterThan(proxies[j].MaxAmount)
		}
		return proxies[i].CreatedAt.Before(proxies[j].CreatedAt)
	})
}
