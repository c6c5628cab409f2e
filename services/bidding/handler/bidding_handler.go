package handler

import (
	"context"
	"errors"
	"net/http"

	"auction-engine/internal/auth"
	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, bidder model.Bidder, auctionID string, amount decimal.Decimal) (model.Bid, error)
	SetProxyBid(ctx context.Context, bidder model.Bidder, auctionID string, maxAmount decimal.Decimal) (model.ProxyBid, error)
	BuyNow(ctx context.Context, bidder model.Bidder, auctionID string) (model.Purchase, error)
	GetAuctionState(ctx context.Context, auctionID string) (model.AuctionState, error)
	GetBidsForAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	CreateAuction(ctx context.Context, req model.NewAuction) (model.Auction, error)
	Activate(ctx context.Context, auctionID string) (model.Auction, error)
	ForceEnd(ctx context.Context, auctionID, winnerID string) (model.Auction, error)
}

// EventFeed exposes recently published auction updates
type EventFeed interface {
	Recent(auctionID string) []model.BidEvent
}

type BiddingHandler struct {
	service BiddingServiceInterface
	feed    EventFeed
}

func NewBiddingHandler(service BiddingServiceInterface, feed EventFeed) *BiddingHandler {
	return &BiddingHandler{service: service, feed: feed}
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}
	if !req.Amount.IsPositive() {
		helpers.HandleBindError(c, "PlaceBidHandler", errors.New("amount must be positive"))
		return
	}

	bidder := auth.BidderFrom(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), bidder, auctionID, req.Amount)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("PlaceBidHandler", "failed to place bid", status, map[string]any{
			"auction_id": auctionID,
			"user_id":    bidder.UserID,
			"amount":     req.Amount.String(),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount.String(),
	})
}

// SetProxyBidHandler handles PUT /auctions/:auction_id/proxy
func (h *BiddingHandler) SetProxyBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.ProxyBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetProxyBidHandler", err)
		return
	}
	if !req.MaxAmount.IsPositive() {
		helpers.HandleBindError(c, "SetProxyBidHandler", errors.New("max_amount must be positive"))
		return
	}

	bidder := auth.BidderFrom(c)
	proxy, err := h.service.SetProxyBid(c.Request.Context(), bidder, auctionID, req.MaxAmount)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("SetProxyBidHandler", "failed to set proxy bid", status, map[string]any{
			"auction_id": auctionID,
			"user_id":    bidder.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProxyBidResponse(proxy), "proxy bid saved")
	helpers.LogSuccess("SetProxyBidHandler", "proxy bid saved", map[string]any{
		"auction_id": auctionID,
		"user_id":    bidder.UserID,
	})
}

// BuyNowHandler handles POST /auctions/:auction_id/buy-now
func (h *BiddingHandler) BuyNowHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bidder := auth.BidderFrom(c)

	purchase, err := h.service.BuyNow(c.Request.Context(), bidder, auctionID)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("BuyNowHandler", "buy now failed", status, map[string]any{
			"auction_id": auctionID,
			"user_id":    bidder.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.PurchaseResponse{Bid: helpers.NewBidResponse(purchase.Bid), WinnerID: purchase.WinnerID}
	utils.JSONResponse(c, http.StatusCreated, resp, "item bought successfully")
	helpers.LogSuccess("BuyNowHandler", "item bought successfully", map[string]any{
		"auction_id": auctionID,
		"winner_id":  purchase.WinnerID,
		"amount":     purchase.Bid.Amount.String(),
	})
}

// GetAuctionStateHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionStateHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	state, err := h.service.GetAuctionState(c.Request.Context(), auctionID)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("GetAuctionStateHandler", "error retrieving auction", status, map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, state, "auction retrieved successfully")
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidsForAuction(c.Request.Context(), auctionID)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("GetBidsHandler", "error retrieving bids", status, map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetEventsHandler handles GET /auctions/:auction_id/events
func (h *BiddingHandler) GetEventsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var recent []model.BidEvent
	if h.feed != nil {
		recent = h.feed.Recent(auctionID)
	}
	if recent == nil {
		recent = []model.BidEvent{}
	}
	utils.JSONResponse(c, http.StatusOK, recent, "events retrieved successfully")
}

// CreateAuctionHandler handles POST /auctions
func (h *BiddingHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		helpers.HandleBindError(c, "CreateAuctionHandler", errors.New("start_time and end_time are required"))
		return
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), model.NewAuction{
		ItemID:          req.ItemID,
		StartPrice:      req.StartPrice,
		BuyNowPrice:     req.BuyNowPrice,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AllowAutoExtend: req.AllowAutoExtend,
	})
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("CreateAuctionHandler", "failed to create auction", status, map[string]any{"item_id": req.ItemID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, auction, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"item_id":    auction.ItemID,
	})
}

// ActivateHandler handles POST /auctions/:auction_id/activate
func (h *BiddingHandler) ActivateHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.Activate(c.Request.Context(), auctionID)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("ActivateHandler", "failed to activate auction", status, map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction activated")
}

// ForceEndHandler handles POST /auctions/:auction_id/end
func (h *BiddingHandler) ForceEndHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.ForceEndRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, "ForceEndHandler", err)
			return
		}
	}

	auction, err := h.service.ForceEnd(c.Request.Context(), auctionID, req.WinnerID)
	if err != nil {
		status := helpers.RespondError(c, err)
		helpers.LogFailure("ForceEndHandler", "failed to end auction", status, map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction ended")
	helpers.LogSuccess("ForceEndHandler", "auction ended", map[string]any{
		"auction_id": auctionID,
		"operator":   auth.BidderFrom(c).UserID,
	})
}
