package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/biddingerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, biddingerrors.ErrRoleForbidden):
		return http.StatusForbidden, "role is not allowed to bid"
	case errors.Is(err, biddingerrors.ErrInsufficientDeposit):
		return http.StatusPaymentRequired, "insufficient deposit"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrAuctionEnded):
		return http.StatusConflict, "auction has ended"
	case errors.Is(err, biddingerrors.ErrAuctionNotActive):
		return http.StatusConflict, "auction is not active"
	case errors.Is(err, biddingerrors.ErrBuyNowUnavailable):
		return http.StatusConflict, "buy now is not available"
	case errors.Is(err, biddingerrors.ErrAuctionExists), errors.Is(err, biddingerrors.ErrItemAtAuction):
		return http.StatusConflict, "item is already at auction"
	case errors.Is(err, biddingerrors.ErrInvalidTransition):
		return http.StatusConflict, "invalid auction state transition"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusOK, "no bids found for auction"
	case errors.Is(err, biddingerrors.ErrStoreConflict):
		return http.StatusServiceUnavailable, "auction is busy, please retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error. Rejections carry their specific
// message and, for low bids, the amount that has to be beaten.
func RespondError(c *gin.Context, err error) int {
	status, message := MapErrorToHTTP(err)

	var rej *biddingerrors.RejectionError
	if errors.As(err, &rej) {
		details := gin.H{"reason": rej.Reason.Error(), "detail": rej.Message}
		if rej.Minimum.Valid {
			details["minimum"] = rej.Minimum.Decimal.StringFixed(2)
		}
		utils.JSONErrorWithDetails(c, status, err, message, details)
		return status
	}

	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	return status
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// LogFailure logs rejections at warn level and everything else at error level
func LogFailure(handlerName, message string, status int, ctx map[string]any) {
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, ctx)
		return
	}
	utils.Warn(handlerName+": "+message, ctx)
}
