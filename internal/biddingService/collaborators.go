package bidding

import (
	"context"

	"auction-engine/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=collaborators.go -destination=mock_collaborators.go -package=bidding

// EventPublisher broadcasts live auction updates. PublishBid is called
// exactly once per committed bid, after the commit.
type EventPublisher interface {
	PublishBid(ctx context.Context, event models.BidEvent)
	PublishError(ctx context.Context, auctionID string, err error)
}

// DepositLookup reads a user's deposit balance from the account subsystem
type DepositLookup interface {
	DepositBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}
