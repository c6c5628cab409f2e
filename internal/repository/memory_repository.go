package repository

import (
	"context"
	"fmt"
	"sync"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
)

// auctionEntry holds one auction's rows behind its own lock so that
// distinct auctions never contend.
type auctionEntry struct {
	mu      sync.Mutex
	auction model.Auction
	bids    []model.Bid
	proxies map[string]model.ProxyBid // key: userID
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionLedger
type MemoryRepo struct {
	mu       sync.RWMutex
	auctions map[string]*auctionEntry // key: auctionID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]*auctionEntry),
	}
}

func (r *MemoryRepo) entry(auctionID string) (*auctionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return e, nil
}

// CreateAuction stores a new auction. An item may only be in one open auction.
func (r *MemoryRepo) CreateAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, biddingerrors.ErrAuctionExists)
	}
	for _, e := range r.auctions {
		e.mu.Lock()
		busy := e.auction.ItemID == auction.ItemID && e.auction.Status != model.AuctionStatusEnded
		e.mu.Unlock()
		if busy {
			return fmt.Errorf("create auction %s: %w - item %s", auction.AuctionID, biddingerrors.ErrItemAtAuction, auction.ItemID)
		}
	}

	r.auctions[auction.AuctionID] = &auctionEntry{
		auction: auction,
		proxies: make(map[string]model.ProxyBid),
	}
	return nil
}

// GetAuction returns the auction row
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	e, err := r.entry(auctionID)
	if err != nil {
		return model.Auction{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auction, nil
}

// GetBidsByAuction returns all bids for an auction in commit order
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]model.Bid, error) {
	e, err := r.entry(auctionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), e.bids...), nil
}

// ListProxyBids returns the auction's proxies, highest ceiling first
func (r *MemoryRepo) ListProxyBids(_ context.Context, auctionID string) ([]model.ProxyBid, error) {
	e, err := r.entry(auctionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedProxies(), nil
}

// ListAuctionsByStatus returns every auction currently in status
func (r *MemoryRepo) ListAuctionsByStatus(_ context.Context, status model.AuctionStatus) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Auction
	for _, e := range r.auctions {
		e.mu.Lock()
		if e.auction.Status == status {
			out = append(out, e.auction)
		}
		e.mu.Unlock()
	}
	return out, nil
}

// RunInAuction holds the auction's lock for the whole unit and applies the
// staged writes only when fn succeeds.
func (r *MemoryRepo) RunInAuction(ctx context.Context, auctionID string, fn func(tx AuctionTx) error) error {
	e, err := r.entry(auctionID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &memoryTx{entry: e, auction: e.auction, proxies: make(map[string]model.ProxyBid)}
	if err := fn(tx); err != nil {
		return err
	}

	e.auction = tx.auction
	e.bids = append(e.bids, tx.bids...)
	for userID, p := range tx.proxies {
		e.proxies[userID] = p
	}
	return nil
}

// ForceEnd ends the auction; winner defaults to the current leader
func (r *MemoryRepo) ForceEnd(ctx context.Context, auctionID, winnerID string) (model.Auction, error) {
	var ended model.Auction
	err := r.RunInAuction(ctx, auctionID, func(tx AuctionTx) error {
		var err error
		ended, err = endAuction(tx, winnerID)
		return err
	})
	return ended, err
}

func (e *auctionEntry) sortedProxies() []model.ProxyBid {
	out := make([]model.ProxyBid, 0, len(e.proxies))
	for _, p := range e.proxies {
		out = append(out, p)
	}
	sortProxyBids(out)
	return out
}

// memoryTx stages writes on top of the committed entry
type memoryTx struct {
	entry   *auctionEntry
	auction model.Auction
	bids    []model.Bid
	proxies map[string]model.ProxyBid
}

func (t *memoryTx) Auction() model.Auction {
	return t.auction
}

func (t *memoryTx) WinningBid() (model.Bid, bool, error) {
	if n := len(t.bids); n > 0 {
		return t.bids[n-1], true, nil
	}
	if n := len(t.entry.bids); n > 0 {
		return t.entry.bids[n-1], true, nil
	}
	return model.Bid{}, false, nil
}

func (t *memoryTx) BidCount() (int, error) {
	return len(t.entry.bids) + len(t.bids), nil
}

func (t *memoryTx) ProxyBids() ([]model.ProxyBid, error) {
	merged := make(map[string]model.ProxyBid, len(t.entry.proxies)+len(t.proxies))
	for k, v := range t.entry.proxies {
		merged[k] = v
	}
	for k, v := range t.proxies {
		merged[k] = v
	}
	out := make([]model.ProxyBid, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	sortProxyBids(out)
	return out, nil
}

func (t *memoryTx) AppendBid(bid model.Bid) error {
	if err := checkAppend(t.auction, bid); err != nil {
		return err
	}
	t.bids = append(t.bids, bid)
	t.auction.CurrentBid.Decimal = bid.Amount
	t.auction.CurrentBid.Valid = true
	t.auction.UpdatedAt = bid.CreatedAt
	return nil
}

func (t *memoryTx) SaveAuction(auction model.Auction) error {
	if err := checkUpdate(t.auction, auction); err != nil {
		return err
	}
	t.auction = auction
	return nil
}

func (t *memoryTx) UpsertProxyBid(proxy model.ProxyBid) (model.ProxyBid, error) {
	if proxy.AuctionID != t.auction.AuctionID {
		return model.ProxyBid{}, fmt.Errorf("upsert proxy bid: %w - auction mismatch", biddingerrors.ErrInvalidBid)
	}
	if t.auction.Status == model.AuctionStatusEnded {
		return model.ProxyBid{}, fmt.Errorf("upsert proxy bid on auction %s: %w", t.auction.AuctionID, biddingerrors.ErrAuctionEnded)
	}

	existing, ok := t.proxies[proxy.UserID]
	if !ok {
		existing, ok = t.entry.proxies[proxy.UserID]
	}
	if ok {
		existing.MaxAmount = proxy.MaxAmount
		existing.UpdatedAt = proxy.UpdatedAt
		proxy = existing
	}
	t.proxies[proxy.UserID] = proxy
	return proxy, nil
}
