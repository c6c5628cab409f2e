package bidding

import (
	"context"
	"fmt"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// proxyMove is a system bid a standing proxy has to place
type proxyMove struct {
	UserID  string
	Amount  decimal.Decimal
	Ceiling decimal.Decimal
}

// nextProxyMove computes the single counter-bid, if any, that the standing
// proxies require. proxies must be ordered by MaxAmount descending. leaderID
// is the owner of the winning bid, or empty when there is none, and price is
// the amount any new bid has to exceed.
//
// A returned move is always above price, so repeated resolution either
// stops or strictly raises the price, bounded by the top ceiling.
func nextProxyMove(proxies []models.ProxyBid, leaderID string, price, increment decimal.Decimal) (proxyMove, bool) {
	if len(proxies) == 0 {
		return proxyMove{}, false
	}

	top := proxies[0]
	var second *models.ProxyBid
	if len(proxies) > 1 {
		second = &proxies[1]
	}

	if top.UserID == leaderID {
		// the leader only defends against the runner-up's ceiling, and
		// never at its own full maximum
		if second == nil {
			return proxyMove{}, false
		}
		candidate := second.MaxAmount.Add(increment)
		if candidate.GreaterThan(top.MaxAmount) || !candidate.GreaterThan(price) {
			return proxyMove{}, false
		}
		return proxyMove{UserID: top.UserID, Amount: candidate, Ceiling: top.MaxAmount}, true
	}

	if !top.MaxAmount.GreaterThan(price) {
		return proxyMove{}, false
	}

	base := price
	if second != nil && second.MaxAmount.GreaterThan(base) {
		base = second.MaxAmount
	}
	candidate := decimal.Min(base.Add(increment), top.MaxAmount)
	if !candidate.GreaterThan(price) {
		return proxyMove{}, false
	}
	return proxyMove{UserID: top.UserID, Amount: candidate, Ceiling: top.MaxAmount}, true
}

// Resolve issues at most one system bid on behalf of the strongest standing
// proxy. It returns the bid, or nil when no proxy needs to act.
func (s *BiddingService) Resolve(ctx context.Context, auctionID string) (*models.Bid, error) {
	res, err := s.resolve(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	s.afterSystemBid(ctx, res)
	return &res.bid, nil
}

// resolve computes and commits the proxy counter-bid against the state
// observed inside one atomic unit.
func (s *BiddingService) resolve(ctx context.Context, auctionID string) (*committed, error) {
	var res *committed
	err := s.withRetry(ctx, auctionID, func() error {
		res = nil
		return s.repo.RunInAuction(ctx, auctionID, func(tx repository.AuctionTx) error {
			auction := tx.Auction()
			if !auction.AcceptsBidsAt(s.clock.Now()) {
				return nil
			}

			proxies, err := tx.ProxyBids()
			if err != nil {
				return err
			}
			if len(proxies) == 0 {
				return nil
			}

			leaderID := ""
			winning, ok, err := tx.WinningBid()
			if err != nil {
				return err
			}
			if ok {
				leaderID = winning.UserID
			}

			move, ok := nextProxyMove(proxies, leaderID, auction.PriceFloor(), s.policy.Increment)
			if !ok {
				return nil
			}
			if move.Amount.GreaterThan(move.Ceiling) {
				return fmt.Errorf("service: proxy for user %s on auction %s: %w - %s over %s",
					move.UserID, auctionID, biddingerrors.ErrProxyCeilingExceeded, move.Amount, move.Ceiling)
			}

			c, err := s.applyBid(tx, move.UserID, move.Amount, models.BidSourceProxy)
			if err != nil {
				return err
			}
			res = &c
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service: resolve proxies on auction %s: %w", auctionID, err)
	}

	if res != nil {
		utils.Info("proxy bid placed", map[string]any{
			"auction_id": auctionID,
			"user_id":    res.bid.UserID,
			"amount":     res.bid.Amount.String(),
		})
	}
	return res, nil
}
