package main

import (
	"context"
	"time"

	"auction-engine/internal/auth"
	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/config"
	"auction-engine/internal/database"
	"auction-engine/internal/deposits"
	"auction-engine/internal/events"
	"auction-engine/internal/jobs"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

const recentEventsPerAuction = 50

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.Server.LogLevel); err != nil {
		utils.Warn("unknown log level, keeping info", map[string]any{"level": cfg.Server.LogLevel})
	}

	ledger, balances := openLedger(cfg)

	recorder := events.NewRecorder(recentEventsPerAuction, events.LogPublisher{})
	clock := utils.SystemClock{}
	biddingSvc := bidding.NewBiddingService(ledger, balances, recorder, clock, cfg.Policy())

	if cfg.Database.Driver == "memory" {
		seedDemo(biddingSvc, balances.(*deposits.StaticBalances), clock)
	}

	lifecycle := jobs.NewLifecycleJob(biddingSvc, clock, cfg.Bidding.LifecycleInterval)
	go lifecycle.Start()
	defer lifecycle.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := server.SetupRouter(biddingSvc, recorder, tokens, cfg.Server.CORSOrigins)

	utils.Info("starting auction server", map[string]any{"addr": cfg.Addr(), "driver": cfg.Database.Driver})
	if err := router.Run(cfg.Addr()); err != nil {
		utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
	}
}

// openLedger picks the ledger store and the deposit source that goes with it
func openLedger(cfg *config.Config) (repository.AuctionLedger, bidding.DepositLookup) {
	if cfg.Database.Driver == "memory" {
		return repository.NewMemoryRepo(), deposits.NewStaticBalances(nil)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		utils.Fatal("failed to open database", map[string]any{"error": err.Error()})
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.Fatal("failed to migrate database", map[string]any{"error": err.Error()})
	}
	return repository.NewGormRepo(db), deposits.NewGormBalances(db)
}

// seedDemo opens a few auctions and funds a few bidders in the in-memory store
func seedDemo(svc *bidding.BiddingService, balances *deposits.StaticBalances, clock utils.Clock) {
	for _, user := range []string{"user1", "user2", "user3"} {
		balances.Set(user, decimal.NewFromInt(1000))
	}

	now := clock.Now()
	items := []models.NewAuction{
		{ItemID: "item1", StartPrice: decimal.NewFromInt(100), StartTime: now, EndTime: now.Add(time.Hour), AllowAutoExtend: true},
		{ItemID: "item2", StartPrice: decimal.NewFromInt(200), BuyNowPrice: decimal.NewNullDecimal(decimal.NewFromInt(500)), StartTime: now, EndTime: now.Add(2 * time.Hour)},
		{ItemID: "item3", StartPrice: decimal.NewFromInt(150), StartTime: now.Add(10 * time.Minute), EndTime: now.Add(3 * time.Hour), AllowAutoExtend: true},
	}

	ctx := context.Background()
	for _, item := range items {
		auction, err := svc.CreateAuction(ctx, item)
		if err != nil {
			utils.Error("seed: create auction", map[string]any{"item_id": item.ItemID, "error": err.Error()})
			continue
		}
		if !now.Before(auction.StartTime) {
			if _, err := svc.Activate(ctx, auction.AuctionID); err != nil {
				utils.Error("seed: activate auction", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
				continue
			}
		}
		utils.Info("seeded auction", map[string]any{"auction_id": auction.AuctionID, "item_id": auction.ItemID})
	}
}
