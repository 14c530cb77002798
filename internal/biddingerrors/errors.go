package biddingerrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Local validation errors; these never reach the network
var (
	ErrMissingBidder = errors.New("missing bidder name")
	ErrInvalidAmount = errors.New("invalid bid amount")
	ErrBidTooLow     = errors.New("bid amount too low")
)

// Store client errors
var (
	ErrBidRejected     = errors.New("bid rejected by store")
	ErrTransport       = errors.New("no response from auction store")
	ErrAuctionNotFound = errors.New("auction not found")
)

// Session and controller errors
var (
	ErrSubmissionInFlight = errors.New("a bid submission is already in flight")
	ErrNoSnapshot         = errors.New("auction not loaded")
	ErrSessionClosed      = errors.New("session closed")
)

// Store-side arbitration errors, used by the development store
var (
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrAuctionNotStarted = errors.New("auction has not started")
	ErrInvalidAuction    = errors.New("invalid auction")
)

// TooLowError reports the price floor a rejected candidate failed to exceed
type TooLowError struct {
	Floor decimal.Decimal
}

func (e *TooLowError) Error() string {
	return fmt.Sprintf("Bid must be higher than $%s", e.Floor.StringFixed(2))
}

func (e *TooLowError) Unwrap() error {
	return ErrBidTooLow
}

// RejectionError carries the store-supplied reason for a non-success bid response
type RejectionError struct {
	Reason     string
	StatusCode int
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func (e *RejectionError) Unwrap() error {
	return ErrBidRejected
}
