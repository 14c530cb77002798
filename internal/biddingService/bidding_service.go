package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"memorabilia-auction/internal/auctionclient"
	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/session"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
)

// State is the bid panel state of one detail session
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateShowingError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateShowingError:
		return "showing_error"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	msgEnterNameAndAmount = "Enter your name and a valid amount"
	msgBidFailed          = "Failed to place bid"
	msgNotLoaded          = "Auction is still loading"
)

// PanelView is a point-in-time copy of the bid panel
type PanelView struct {
	State      State
	Error      string
	BidderName string
	Amount     string
}

// BidController runs validate -> submit -> reconcile for one session.
// At most one submission is in flight; the held price only moves on a store-confirmed acceptance.
type BidController struct {
	session *session.Session
	store   auctionclient.AuctionStore
	metrics metrics.Recorder

	mu         sync.Mutex
	state      State
	errMessage string
	bidderName string
	amount     string
}

// NewBidController creates a controller bound to sess
func NewBidController(sess *session.Session, store auctionclient.AuctionStore, recorder metrics.Recorder) *BidController {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &BidController{
		session: sess,
		store:   store,
		metrics: recorder,
		state:   StateIdle,
	}
}

// Session returns the session this controller patches
func (c *BidController) Session() *session.Session {
	return c.session
}

// Submit validates the candidate bid against the held price floor and, if valid,
// asks the store to arbitrate it. It returns the store-confirmed current price.
// A call made while another submission is pending returns ErrSubmissionInFlight
// without touching the network.
func (c *BidController) Submit(ctx context.Context, bidderName, rawAmount string) (decimal.Decimal, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		c.metrics.RecordBidOutcome(metrics.BidIgnored)
		return decimal.Decimal{}, fmt.Errorf("controller: %w", biddingerrors.ErrSubmissionInFlight)
	}

	c.bidderName, c.amount = bidderName, rawAmount

	floor, err := c.session.PriceFloor()
	if err != nil {
		c.showError(err)
		c.mu.Unlock()
		return decimal.Decimal{}, fmt.Errorf("controller: %w", err)
	}

	amount, err := ValidateBid(rawAmount, bidderName, floor)
	if err != nil {
		c.showError(err)
		c.mu.Unlock()
		c.metrics.RecordBidOutcome(metrics.BidInvalid)
		return decimal.Decimal{}, fmt.Errorf("controller: %w", err)
	}

	c.state = StateSubmitting
	c.errMessage = ""
	c.mu.Unlock()

	auctionID := c.session.AuctionID()
	reqCtx, cancel := c.session.RequestContext(ctx)
	defer cancel()

	price, err := c.store.SubmitBid(reqCtx, auctionID, strings.TrimSpace(bidderName), amount)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Closed() {
		c.state = StateIdle
		c.metrics.RecordBidOutcome(metrics.BidDiscarded)
		utils.Info("controller: discarding bid result for closed session", map[string]any{
			"session_id": c.session.ID(),
			"auction_id": auctionID,
		})
		return decimal.Decimal{}, fmt.Errorf("controller: %w", biddingerrors.ErrSessionClosed)
	}

	if err != nil {
		c.showError(err)
		outcome := metrics.BidTransport
		if errors.Is(err, biddingerrors.ErrBidRejected) {
			outcome = metrics.BidRejected
		}
		c.metrics.RecordBidOutcome(outcome)
		utils.Warn("controller: bid not accepted", map[string]any{
			"session_id": c.session.ID(),
			"auction_id": auctionID,
			"amount":     amount.String(),
			"error":      err.Error(),
		})
		return decimal.Decimal{}, fmt.Errorf("controller: %w", err)
	}

	c.session.ApplyConfirmedPrice(price)
	c.amount = ""
	c.state = StateIdle
	c.metrics.RecordBidOutcome(metrics.BidAccepted)
	utils.Info("controller: bid accepted", map[string]any{
		"session_id":    c.session.ID(),
		"auction_id":    auctionID,
		"current_price": price.String(),
	})
	return price, nil
}

// Edit records a field edit; an error on display is cleared back to idle
func (c *BidController) Edit(bidderName, rawAmount string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bidderName, c.amount = bidderName, rawAmount
	if c.state == StateShowingError {
		c.state = StateIdle
		c.errMessage = ""
	}
}

// View returns the current panel state
func (c *BidController) View() PanelView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return PanelView{
		State:      c.state,
		Error:      c.errMessage,
		BidderName: c.bidderName,
		Amount:     c.amount,
	}
}

// showError must be called with c.mu held
func (c *BidController) showError(err error) {
	c.state = StateShowingError
	c.errMessage = ErrorMessage(err)
}

// ErrorMessage maps a submission error to the inline message shown to the bidder.
// Store rejections are surfaced verbatim.
func ErrorMessage(err error) string {
	var tooLow *biddingerrors.TooLowError
	var rejection *biddingerrors.RejectionError

	switch {
	case errors.As(err, &tooLow):
		return tooLow.Error()
	case errors.As(err, &rejection):
		return rejection.Reason
	case errors.Is(err, biddingerrors.ErrMissingBidder), errors.Is(err, biddingerrors.ErrInvalidAmount):
		return msgEnterNameAndAmount
	case errors.Is(err, biddingerrors.ErrNoSnapshot):
		return msgNotLoaded
	default:
		return msgBidFailed
	}
}
