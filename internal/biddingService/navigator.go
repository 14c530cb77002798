package bidding

import (
	"context"
	"fmt"
	"sync"

	"memorabilia-auction/internal/auctionclient"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/internal/session"
	"memorabilia-auction/utils"
)

// Detail is the open detail view: its session and the controller bound to it
type Detail struct {
	Session    *session.Session
	Controller *BidController
}

// Navigator moves between the list view and a single detail view.
// It holds at most one Detail; leaving a detail closes its session.
type Navigator struct {
	store   auctionclient.AuctionStore
	metrics metrics.Recorder

	mu      sync.Mutex
	current *Detail
}

// NewNavigator creates a Navigator backed by store
func NewNavigator(store auctionclient.AuctionStore, recorder metrics.Recorder) *Navigator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Navigator{store: store, metrics: recorder}
}

// List leaves any open detail view and fetches the auction summaries
func (n *Navigator) List(ctx context.Context) ([]models.Auction, error) {
	n.Leave()

	auctions, err := n.store.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("navigator: %w", err)
	}
	return auctions, nil
}

// Open navigates into the detail view of auctionID with a full fetch.
// Re-opening the held auction refreshes it; opening another closes the held one first.
// On any load error nothing is held and the caller should return to the list.
func (n *Navigator) Open(ctx context.Context, auctionID string) (*Detail, error) {
	n.mu.Lock()
	detail := n.current
	if detail != nil && detail.Session.AuctionID() != auctionID {
		n.current = nil
		detail.Session.Close()
		detail = nil
	}
	if detail == nil {
		sess := session.New(n.store, auctionID)
		detail = &Detail{
			Session:    sess,
			Controller: NewBidController(sess, n.store, n.metrics),
		}
		n.current = detail
	}
	n.mu.Unlock()

	if _, err := detail.Session.Load(ctx); err != nil {
		n.drop(detail)
		utils.Warn("navigator: detail view unavailable", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("navigator: %w", err)
	}

	return detail, nil
}

// Create creates an auction through the store, then opens its detail view
func (n *Navigator) Create(ctx context.Context, auction models.NewAuction) (*Detail, error) {
	id, err := n.store.CreateAuction(ctx, auction)
	if err != nil {
		return nil, fmt.Errorf("navigator: %w", err)
	}
	return n.Open(ctx, id)
}

// Current returns the held detail if it is for auctionID
func (n *Navigator) Current(auctionID string) (*Detail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil || n.current.Session.AuctionID() != auctionID {
		return nil, false
	}
	return n.current, true
}

// Leave closes the held detail view, if any
func (n *Navigator) Leave() {
	n.mu.Lock()
	detail := n.current
	n.current = nil
	n.mu.Unlock()

	if detail != nil {
		detail.Session.Close()
	}
}

// drop closes detail and forgets it if it is still the held one
func (n *Navigator) drop(detail *Detail) {
	n.mu.Lock()
	if n.current == detail {
		n.current = nil
	}
	n.mu.Unlock()

	detail.Session.Close()
}
