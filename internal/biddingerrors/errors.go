package biddingerrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository-level errors
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionExists     = errors.New("auction already exists")
	ErrItemAtAuction     = errors.New("item is already at auction")
	ErrNoBids            = errors.New("no bids found for auction")
	ErrStoreConflict     = errors.New("store conflict")
	ErrInvalidTransition = errors.New("invalid auction state transition")
)

// Eligibility errors
var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrRoleForbidden       = errors.New("role is not allowed to bid")
	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrAuctionEnded        = fmt.Errorf("%w: auction has ended", ErrAuctionNotActive)
	ErrInsufficientDeposit = errors.New("insufficient deposit")
)

// business logic errors
var (
	ErrInvalidBid           = errors.New("invalid bid")
	ErrBidTooLow            = errors.New("bid amount too low")
	ErrBuyNowUnavailable    = errors.New("buy now is not available")
	ErrProxyCeilingExceeded = errors.New("proxy ceiling exceeded")
)

// RejectionError is a typed rejection returned to the bidder. It unwraps to
// one of the sentinel errors above.
type RejectionError struct {
	Reason  error
	Minimum decimal.NullDecimal
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason.Error(), e.Message)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// Reject builds a RejectionError with a formatted message.
func Reject(reason error, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// TooLow rejects a bid that does not exceed minimum.
func TooLow(minimum decimal.Decimal) *RejectionError {
	return &RejectionError{
		Reason:  ErrBidTooLow,
		Minimum: decimal.NewNullDecimal(minimum),
		Message: fmt.Sprintf("bid must be higher than %s", minimum.StringFixed(2)),
	}
}

// IsRejection reports whether err is a user-facing rejection rather than a
// store or programming failure.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}
