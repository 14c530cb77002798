package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusUnprocessableEntity, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/client errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrBidRejected):
		return http.StatusConflict, "bid rejected by auction store"
	case errors.Is(err, biddingerrors.ErrSubmissionInFlight):
		return http.StatusConflict, "a bid is already being placed"
	case errors.Is(err, biddingerrors.ErrSessionClosed):
		return http.StatusConflict, "auction view was closed"
	case errors.Is(err, biddingerrors.ErrNoSnapshot):
		return http.StatusConflict, "auction is still loading"
	case errors.Is(err, biddingerrors.ErrMissingBidder),
		errors.Is(err, biddingerrors.ErrInvalidAmount),
		errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusUnprocessableEntity, "invalid bid"
	case errors.Is(err, biddingerrors.ErrInvalidAuction):
		return http.StatusUnprocessableEntity, "invalid auction"
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrTransport):
		return http.StatusBadGateway, "auction store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
