package helpers

import (
	"time"

	model "auction-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ProxyBidRequest struct {
	MaxAmount decimal.Decimal `json:"max_amount"`
}

type CreateAuctionRequest struct {
	ItemID          string              `json:"item_id" binding:"required"`
	StartPrice      decimal.Decimal     `json:"start_price"`
	BuyNowPrice     decimal.NullDecimal `json:"buy_now_price"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	AllowAutoExtend bool                `json:"allow_auto_extend"`
}

type ForceEndRequest struct {
	WinnerID string `json:"winner_id"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	UserID    string `json:"user_id"`
	Amount    string `json:"amount"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

type ProxyBidResponse struct {
	AuctionID string `json:"auction_id"`
	UserID    string `json:"user_id"`
	MaxAmount string `json:"max_amount"`
	UpdatedAt string `json:"updated_at"`
}

type PurchaseResponse struct {
	Bid      BidResponse `json:"bid"`
	WinnerID string      `json:"winner_id"`
}

// NewBidResponse converts a bid to its wire form
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		UserID:    bid.UserID,
		Amount:    bid.Amount.StringFixed(2),
		Source:    string(bid.Source),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewProxyBidResponse converts a proxy bid to its wire form
func NewProxyBidResponse(p model.ProxyBid) ProxyBidResponse {
	return ProxyBidResponse{
		AuctionID: p.AuctionID,
		UserID:    p.UserID,
		MaxAmount: p.MaxAmount.StringFixed(2),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
