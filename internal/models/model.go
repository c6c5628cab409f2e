package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionStatusScheduled AuctionStatus = "SCHEDULED"
	AuctionStatusActive    AuctionStatus = "ACTIVE"
	AuctionStatusEnded     AuctionStatus = "ENDED"
)

// CanTransition reports whether the status may move to next.
// Transitions only go forward; ENDED is terminal.
func (s AuctionStatus) CanTransition(next AuctionStatus) bool {
	switch s {
	case AuctionStatusScheduled:
		return next == AuctionStatusActive || next == AuctionStatusEnded
	case AuctionStatusActive:
		return next == AuctionStatusEnded
	default:
		return false
	}
}

// Role is the account role carried by the authentication claim
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// IsOperator reports whether the role belongs to shop personnel.
func (r Role) IsOperator() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Bidder is the authenticated caller of a bidding operation
type Bidder struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// BidSource tells who created a bid
type BidSource string

const (
	BidSourceManual BidSource = "MANUAL"
	BidSourceProxy  BidSource = "PROXY"
	BidSourceBuyNow BidSource = "BUY_NOW"
)

// Auction is one item under timed competitive bidding
type Auction struct {
	AuctionID       string              `gorm:"column:auction_id;primaryKey;size:36" json:"auction_id"`
	ItemID          string              `gorm:"column:item_id;size:64;not null;index" json:"item_id"`
	StartPrice      decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"start_price"`
	CurrentBid      decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"current_bid"`
	BuyNowPrice     decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"buy_now_price"`
	Status          AuctionStatus       `gorm:"size:16;not null;index" json:"status"`
	StartTime       time.Time           `gorm:"not null" json:"start_time"`
	EndTime         time.Time           `gorm:"not null" json:"end_time"`
	AllowAutoExtend bool                `gorm:"not null;default:false" json:"allow_auto_extend"`
	ExtendedCount   int                 `gorm:"not null;default:0" json:"extended_count"`
	WinnerID        *string             `gorm:"size:64" json:"winner_id"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (Auction) TableName() string {
	return "auctions"
}

// PriceFloor is the amount every new bid must exceed.
func (a Auction) PriceFloor() decimal.Decimal {
	if a.CurrentBid.Valid && a.CurrentBid.Decimal.GreaterThan(a.StartPrice) {
		return a.CurrentBid.Decimal
	}
	return a.StartPrice
}

// AcceptsBidsAt reports whether the auction is open for bidding at now.
func (a Auction) AcceptsBidsAt(now time.Time) bool {
	return a.Status == AuctionStatusActive && !now.Before(a.StartTime) && now.Before(a.EndTime)
}

// AmountScale is the number of fractional digits the money columns keep.
const AmountScale = 2

// IsStorableAmount reports whether d survives the money columns unchanged.
func IsStorableAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale))
}

// Bid represents an accepted price commitment. Bids are never updated.
type Bid struct {
	BidID     string          `gorm:"column:bid_id;primaryKey;size:36" json:"bid_id"`
	AuctionID string          `gorm:"column:auction_id;size:36;not null;index:idx_bids_auction_amount,priority:1" json:"auction_id"`
	UserID    string          `gorm:"size:64;not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null;index:idx_bids_auction_amount,priority:2" json:"amount"`
	Source    BidSource       `gorm:"size:16;not null" json:"source"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

func (Bid) TableName() string {
	return "bids"
}

// ProxyBid is a standing instruction to bid up to MaxAmount for UserID
type ProxyBid struct {
	ProxyBidID string          `gorm:"column:proxy_bid_id;primaryKey;size:36" json:"proxy_bid_id"`
	AuctionID  string          `gorm:"column:auction_id;size:36;not null;uniqueIndex:idx_proxy_auction_user,priority:1" json:"auction_id"`
	UserID     string          `gorm:"size:64;not null;uniqueIndex:idx_proxy_auction_user,priority:2" json:"user_id"`
	MaxAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"max_amount"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (ProxyBid) TableName() string {
	return "proxy_bids"
}

// DepositAccount is the read-only deposit balance owned by the account subsystem
type DepositAccount struct {
	UserID  string          `gorm:"primaryKey;size:64" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
}

func (DepositAccount) TableName() string {
	return "deposit_accounts"
}

// AuctionState is a consistent snapshot of an auction for display
type AuctionState struct {
	AuctionID     string              `json:"auction_id"`
	ItemID        string              `json:"item_id"`
	Status        AuctionStatus       `json:"status"`
	StartPrice    decimal.Decimal     `json:"start_price"`
	CurrentBid    decimal.NullDecimal `json:"current_bid"`
	PriceToBeat   decimal.Decimal     `json:"price_to_beat"`
	BuyNowPrice   decimal.NullDecimal `json:"buy_now_price"`
	BidCount      int                 `json:"bid_count"`
	StartTime     time.Time           `json:"start_time"`
	EndTime       time.Time           `json:"end_time"`
	ExtendedCount int                 `json:"extended_count"`
	LastBidTime   *time.Time          `json:"last_bid_time"`
	LastBidderID  *string             `json:"last_bidder_id"`
	WinnerID      *string             `json:"winner_id"`
}

// BidEvent is published after every committed bid
type BidEvent struct {
	AuctionID    string          `json:"auction_id"`
	CurrentBid   decimal.Decimal `json:"current_bid"`
	BidCount     int             `json:"bid_count"`
	LastBidTime  time.Time       `json:"last_bid_time"`
	LastBidderID string          `json:"last_bidder_id"`
	Source       BidSource       `json:"source"`
	Status       AuctionStatus   `json:"status"`
	EndTime      time.Time       `json:"end_time"`
}

// NewAuction describes an item being moved to auction
type NewAuction struct {
	ItemID          string
	StartPrice      decimal.Decimal
	BuyNowPrice     decimal.NullDecimal
	StartTime       time.Time
	EndTime         time.Time
	AllowAutoExtend bool
}

// Purchase is the outcome of a buy-now
type Purchase struct {
	Bid      Bid    `json:"bid"`
	WinnerID string `json:"winner_id"`
}
