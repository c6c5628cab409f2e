package events

import (
	"context"
	"sync"
	"time"

	"auction-engine/internal/models"
	"auction-engine/utils"
)

// Publisher receives auction updates after each commit
type Publisher interface {
	PublishBid(ctx context.Context, event models.BidEvent)
	PublishError(ctx context.Context, auctionID string, err error)
}

// LogPublisher writes every update to the structured log
type LogPublisher struct{}

func (LogPublisher) PublishBid(_ context.Context, event models.BidEvent) {
	utils.Info("auction update", map[string]any{
		"auction_id":     event.AuctionID,
		"current_bid":    event.CurrentBid.String(),
		"bid_count":      event.BidCount,
		"last_bid_time":  event.LastBidTime.Format(time.RFC3339),
		"last_bidder_id": event.LastBidderID,
		"source":         event.Source,
		"status":         event.Status,
		"end_time":       event.EndTime.Format(time.RFC3339),
	})
}

func (LogPublisher) PublishError(_ context.Context, auctionID string, err error) {
	utils.Error("auction update failed", map[string]any{
		"auction_id": auctionID,
		"error":      err.Error(),
	})
}

// Recorder keeps the most recent updates per auction for polling and
// forwards everything to next.
type Recorder struct {
	mu     sync.RWMutex
	limit  int
	events map[string][]models.BidEvent
	next   Publisher
}

// NewRecorder keeps up to limit events per auction. next may be nil.
func NewRecorder(limit int, next Publisher) *Recorder {
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{
		limit:  limit,
		events: make(map[string][]models.BidEvent),
		next:   next,
	}
}

func (r *Recorder) PublishBid(ctx context.Context, event models.BidEvent) {
	r.mu.Lock()
	list := append(r.events[event.AuctionID], event)
	if len(list) > r.limit {
		list = list[len(list)-r.limit:]
	}
	r.events[event.AuctionID] = list
	r.mu.Unlock()

	if r.next != nil {
		r.next.PublishBid(ctx, event)
	}
}

func (r *Recorder) PublishError(ctx context.Context, auctionID string, err error) {
	if r.next != nil {
		r.next.PublishError(ctx, auctionID, err)
	}
}

// Recent returns the recorded updates of an auction, oldest first
func (r *Recorder) Recent(auctionID string) []models.BidEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.BidEvent(nil), r.events[auctionID]...)
}
