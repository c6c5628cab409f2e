package bidding

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the fixed business constants of the bidding engine
type Policy struct {
	// Increment is the raise a proxy bid adds over the price it has to beat.
	Increment decimal.Decimal
	// MinDeposit is the deposit balance a bidder must hold.
	MinDeposit decimal.Decimal
	// SnipeWindow is how close to the end a bid must land to extend the auction.
	SnipeWindow time.Duration
	// SnipeExtension is how far the end time moves per extension.
	SnipeExtension time.Duration
	// MaxExtensions caps extensions per auction; zero means unbounded.
	MaxExtensions int
	// CommitRetries is how often a commit is retried after a store conflict.
	CommitRetries int
}

// DefaultPolicy returns the shop's standard bidding policy
func DefaultPolicy() Policy {
	return Policy{
		Increment:      decimal.NewFromInt(2),
		MinDeposit:     decimal.NewFromInt(100),
		SnipeWindow:    5 * time.Minute,
		SnipeExtension: 5 * time.Minute,
		MaxExtensions:  0,
		CommitRetries:  3,
	}
}
