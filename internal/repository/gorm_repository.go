package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo is the relational implementation of AuctionLedger. Each
// RunInAuction call is one database transaction holding a row lock on the
// auction.
type GormRepo struct {
	db     *gorm.DB
	txOpts []*sql.TxOptions
}

// NewGormRepo wraps an open gorm connection. Postgres transactions run at
// serializable isolation.
func NewGormRepo(db *gorm.DB) *GormRepo {
	r := &GormRepo{db: db}
	if db.Dialector.Name() == "postgres" {
		r.txOpts = []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
	}
	return r
}

// Migrate creates the ledger tables
func (r *GormRepo) Migrate() error {
	if err := r.db.AutoMigrate(&model.Auction{}, &model.Bid{}, &model.ProxyBid{}); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// CreateAuction stores a new auction. An item may only be in one open auction.
func (r *GormRepo) CreateAuction(ctx context.Context, auction model.Auction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&model.Auction{}).
			Where("item_id = ? AND status <> ?", auction.ItemID, model.AuctionStatusEnded).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("create auction %s: %w - item %s", auction.AuctionID, biddingerrors.ErrItemAtAuction, auction.ItemID)
		}

		var same int64
		if err := tx.Model(&model.Auction{}).Where("auction_id = ?", auction.AuctionID).Count(&same).Error; err != nil {
			return err
		}
		if same > 0 {
			return fmt.Errorf("create auction %s: %w", auction.AuctionID, biddingerrors.ErrAuctionExists)
		}

		return tx.Create(&auction).Error
	}, r.txOpts...)
	return classifyStoreError(err)
}

// GetAuction returns the auction row
func (r *GormRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).First(&auction, "auction_id = ?", auctionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Auction{}, fmt.Errorf("auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, classifyStoreError(err))
	}
	return auction, nil
}

// GetBidsByAuction returns all bids for an auction in commit order
func (r *GormRepo) GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	if _, err := r.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	var bids []model.Bid
	if err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount ASC, created_at ASC").
		Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, classifyStoreError(err))
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return bids, nil
}

// ListProxyBids returns the auction's proxies, highest ceiling first
func (r *GormRepo) ListProxyBids(ctx context.Context, auctionID string) ([]model.ProxyBid, error) {
	if _, err := r.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	proxies, err := listProxyBids(r.db.WithContext(ctx), auctionID)
	if err != nil {
		return nil, fmt.Errorf("list proxy bids for auction %s: %w", auctionID, classifyStoreError(err))
	}
	return proxies, nil
}

// ListAuctionsByStatus returns every auction currently in status
func (r *GormRepo) ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error) {
	var auctions []model.Auction
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("end_time ASC").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list %s auctions: %w", status, classifyStoreError(err))
	}
	return auctions, nil
}

// RunInAuction locks the auction row and runs fn inside one transaction
func (r *GormRepo) RunInAuction(ctx context.Context, auctionID string, fn func(tx AuctionTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var auction model.Auction
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&auction, "auction_id = ?", auctionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
		}
		if err != nil {
			return err
		}
		return fn(&gormTx{db: db, auction: auction})
	}, r.txOpts...)
	return classifyStoreError(err)
}

// ForceEnd ends the auction; winner defaults to the current leader
func (r *GormRepo) ForceEnd(ctx context.Context, auctionID, winnerID string) (model.Auction, error) {
	var ended model.Auction
	err := r.RunInAuction(ctx, auctionID, func(tx AuctionTx) error {
		var err error
		ended, err = endAuction(tx, winnerID)
		return err
	})
	return ended, err
}

func listProxyBids(db *gorm.DB, auctionID string) ([]model.ProxyBid, error) {
	var proxies []model.ProxyBid
	err := db.Where("auction_id = ?", auctionID).
		Order("max_amount DESC, created_at ASC").
		Find(&proxies).Error
	if err != nil {
		return nil, err
	}
	// numeric ordering of decimal columns differs between drivers
	sortProxyBids(proxies)
	return proxies, nil
}

// gormTx is the AuctionTx bound to an open transaction
type gormTx struct {
	db      *gorm.DB
	auction model.Auction
}

func (t *gormTx) Auction() model.Auction {
	return t.auction
}

func (t *gormTx) WinningBid() (model.Bid, bool, error) {
	var bids []model.Bid
	err := t.db.Where("auction_id = ?", t.auction.AuctionID).
		Order("amount DESC, created_at DESC").
		Limit(1).
		Find(&bids).Error
	if err != nil {
		return model.Bid{}, false, err
	}
	if len(bids) == 0 {
		return model.Bid{}, false, nil
	}
	return bids[0], true, nil
}

func (t *gormTx) BidCount() (int, error) {
	var n int64
	if err := t.db.Model(&model.Bid{}).Where("auction_id = ?", t.auction.AuctionID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (t *gormTx) ProxyBids() ([]model.ProxyBid, error) {
	return listProxyBids(t.db, t.auction.AuctionID)
}

func (t *gormTx) AppendBid(bid model.Bid) error {
	if err := checkAppend(t.auction, bid); err != nil {
		return err
	}
	if err := t.db.Create(&bid).Error; err != nil {
		return fmt.Errorf("append bid to auction %s: %w", t.auction.AuctionID, err)
	}
	if err := t.db.Model(&model.Auction{}).
		Where("auction_id = ?", t.auction.AuctionID).
		Updates(map[string]any{"current_bid": bid.Amount, "updated_at": bid.CreatedAt}).Error; err != nil {
		return fmt.Errorf("update current bid of auction %s: %w", t.auction.AuctionID, err)
	}
	t.auction.CurrentBid = decimal.NewNullDecimal(bid.Amount)
	t.auction.UpdatedAt = bid.CreatedAt
	return nil
}

func (t *gormTx) SaveAuction(auction model.Auction) error {
	if err := checkUpdate(t.auction, auction); err != nil {
		return err
	}
	err := t.db.Model(&model.Auction{}).
		Where("auction_id = ?", auction.AuctionID).
		Select("status", "end_time", "extended_count", "winner_id", "allow_auto_extend").
		Updates(&auction).Error
	if err != nil {
		return fmt.Errorf("save auction %s: %w", auction.AuctionID, err)
	}
	t.auction = auction
	return nil
}

func (t *gormTx) UpsertProxyBid(proxy model.ProxyBid) (model.ProxyBid, error) {
	if proxy.AuctionID != t.auction.AuctionID {
		return model.ProxyBid{}, fmt.Errorf("upsert proxy bid: %w - auction mismatch", biddingerrors.ErrInvalidBid)
	}
	if t.auction.Status == model.AuctionStatusEnded {
		return model.ProxyBid{}, fmt.Errorf("upsert proxy bid on auction %s: %w", t.auction.AuctionID, biddingerrors.ErrAuctionEnded)
	}

	var existing []model.ProxyBid
	if err := t.db.Where("auction_id = ? AND user_id = ?", proxy.AuctionID, proxy.UserID).
		Limit(1).Find(&existing).Error; err != nil {
		return model.ProxyBid{}, err
	}

	if len(existing) == 0 {
		if err := t.db.Create(&proxy).Error; err != nil {
			return model.ProxyBid{}, fmt.Errorf("create proxy bid: %w", err)
		}
		return proxy, nil
	}

	current := existing[0]
	current.MaxAmount = proxy.MaxAmount
	current.UpdatedAt = proxy.UpdatedAt
	if err := t.db.Model(&model.ProxyBid{}).
		Where("proxy_bid_id = ?", current.ProxyBidID).
		Updates(map[string]any{"max_amount": current.MaxAmount, "updated_at": current.UpdatedAt}).Error; err != nil {
		return model.ProxyBid{}, fmt.Errorf("update proxy bid %s: %w", current.ProxyBidID, err)
	}
	return current, nil
}

// classifyStoreError maps driver serialization and lock failures to
// ErrStoreConflict so callers can retry the whole unit.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %w", biddingerrors.ErrStoreConflict, err)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %w", biddingerrors.ErrStoreConflict, err)
		}
	}

	return err
}
