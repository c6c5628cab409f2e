package events

import (
	"context"
	"errors"
	"testing"

	"auction-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type capture struct {
	bids   []models.BidEvent
	errors []string
}

func (c *capture) PublishBid(_ context.Context, event models.BidEvent) {
	c.bids = append(c.bids, event)
}

func (c *capture) PublishError(_ context.Context, auctionID string, err error) {
	c.errors = append(c.errors, auctionID+": "+err.Error())
}

func event(auctionID string, amount int64) models.BidEvent {
	return models.BidEvent{
		AuctionID:  auctionID,
		CurrentBid: decimal.NewFromInt(amount),
		BidCount:   int(amount),
		Source:     models.BidSourceManual,
		Status:     models.AuctionStatusActive,
	}
}

func TestRecorder_KeepsNewestPerAuction(t *testing.T) {
	r := NewRecorder(3, nil)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		r.PublishBid(ctx, event("a1", i))
	}
	r.PublishBid(ctx, event("a2", 9))

	got := r.Recent("a1")
	require.Len(t, got, 3)
	for i, want := range []int64{3, 4, 5} {
		require.True(t, got[i].CurrentBid.Equal(decimal.NewFromInt(want)))
	}
	require.Len(t, r.Recent("a2"), 1)
	require.Empty(t, r.Recent("unknown"))
}

func TestRecorder_RecentIsACopy(t *testing.T) {
	r := NewRecorder(0, nil)
	r.PublishBid(context.Background(), event("a1", 1))

	got := r.Recent("a1")
	got[0].BidCount = 99

	require.Equal(t, 1, r.Recent("a1")[0].BidCount)
}

func TestRecorder_Forwards(t *testing.T) {
	next := &capture{}
	r := NewRecorder(10, next)
	ctx := context.Background()

	r.PublishBid(ctx, event("a1", 1))
	r.PublishError(ctx, "a1", errors.New("boom"))

	require.Len(t, next.bids, 1)
	require.Equal(t, []string{"a1: boom"}, next.errors)
	require.Len(t, r.Recent("a1"), 1)
}

func TestLogPublisher_DoesNotPanic(t *testing.T) {
	var p Publisher = LogPublisher{}
	require.NotPanics(t, func() {
		p.PublishBid(context.Background(), event("a1", 1))
		p.PublishError(context.Background(), "a1", errors.New("boom"))
	})
}
