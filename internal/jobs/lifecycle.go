package jobs

import (
	"context"
	"time"

	"auction-engine/internal/models"
	"auction-engine/utils"
)

// LifecycleService is the part of the bidding service the job drives
type LifecycleService interface {
	ListAuctions(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error)
	Activate(ctx context.Context, auctionID string) (models.Auction, error)
	CloseExpired(ctx context.Context, auctionID string) (models.Auction, bool, error)
}

// LifecycleJob opens scheduled auctions at their start time and closes
// active auctions once their end time has passed
type LifecycleJob struct {
	service  LifecycleService
	clock    utils.Clock
	interval time.Duration
	stopChan chan struct{}
}

// NewLifecycleJob creates a new lifecycle job
func NewLifecycleJob(service LifecycleService, clock utils.Clock, interval time.Duration) *LifecycleJob {
	return &LifecycleJob{
		service:  service,
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs the loop until Stop is called
func (j *LifecycleJob) Start() {
	utils.Info("lifecycle job started", map[string]any{"interval": j.interval.String()})

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(context.Background())
		case <-j.stopChan:
			utils.Info("lifecycle job stopped", nil)
			return
		}
	}
}

// Stop stops the loop
func (j *LifecycleJob) Stop() {
	close(j.stopChan)
}

// RunOnce performs one sweep and returns how many auctions it opened and closed
func (j *LifecycleJob) RunOnce(ctx context.Context) (activated, closed int) {
	now := j.clock.Now()

	scheduled, err := j.service.ListAuctions(ctx, models.AuctionStatusScheduled)
	if err != nil {
		utils.Error("lifecycle: list scheduled auctions", map[string]any{"error": err.Error()})
	}
	for _, a := range scheduled {
		if now.Before(a.StartTime) {
			continue
		}
		if _, err := j.service.Activate(ctx, a.AuctionID); err != nil {
			utils.Error("lifecycle: activate auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			continue
		}
		activated++
	}

	active, err := j.service.ListAuctions(ctx, models.AuctionStatusActive)
	if err != nil {
		utils.Error("lifecycle: list active auctions", map[string]any{"error": err.Error()})
	}
	for _, a := range active {
		if now.Before(a.EndTime) {
			continue
		}
		ended, ok, err := j.service.CloseExpired(ctx, a.AuctionID)
		if err != nil {
			utils.Error("lifecycle: close auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			continue
		}
		if ok {
			closed++
			fields := map[string]any{"auction_id": ended.AuctionID}
			if ended.WinnerID != nil {
				fields["winner_id"] = *ended.WinnerID
			}
			utils.Info("auction closed", fields)
		}
	}

	if activated > 0 || closed > 0 {
		utils.Info("lifecycle sweep", map[string]any{"activated": activated, "closed": closed})
	}
	return activated, closed
}
