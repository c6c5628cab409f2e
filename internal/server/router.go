package server

import (
	"net/http"
	"time"

	"auction-engine/internal/auth"
	handler "auction-engine/services/bidding/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.BiddingServiceInterface, feed handler.EventFeed, tokens *auth.TokenManager, origins []string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery()) // recover from panics
	router.Use(RequestIDMiddleware)
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(cors.New(corsConfig(origins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	biddingHandler := handler.NewBiddingHandler(service, feed)

	auctions := router.Group("/auctions")
	auctions.Use(auth.Middleware(tokens))
	{
		auctions.GET("/:auction_id", biddingHandler.GetAuctionStateHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsHandler)
		auctions.GET("/:auction_id/events", biddingHandler.GetEventsHandler)
		auctions.POST("/:auction_id/bids", biddingHandler.PlaceBidHandler)
		auctions.PUT("/:auction_id/proxy", biddingHandler.SetProxyBidHandler)
		auctions.POST("/:auction_id/buy-now", biddingHandler.BuyNowHandler)
	}

	operator := auctions.Group("")
	operator.Use(auth.RequireOperator())
	{
		operator.POST("", biddingHandler.CreateAuctionHandler)
		operator.POST("/:auction_id/activate", biddingHandler.ActivateHandler)
		operator.POST("/:auction_id/end", biddingHandler.ForceEndHandler)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
