// Package session holds the auction snapshot behind one detail view and the
// request handle that lets the view discard in-flight results on teardown.
package session

import (
	"context"
	"fmt"
	"sync"

	"memorabilia-auction/internal/auctionclient"
	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
)

// Session owns the last authoritative snapshot of a single auction.
// The snapshot is replaced wholesale on Load; only current_price is ever patched in place.
type Session struct {
	id        string
	auctionID string
	store     auctionclient.AuctionStore

	mu       sync.RWMutex
	snapshot *models.Auction
	closed   bool
	// generation advances on every confirmed price; a load that started
	// before the latest confirmation is stale
	generation uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an unloaded session for auctionID
func New(store auctionclient.AuctionStore, auctionID string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:        utils.GenerateID(),
		auctionID: auctionID,
		store:     store,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// AuctionID returns the auction this session views
func (s *Session) AuctionID() string {
	return s.auctionID
}

// RequestContext derives a context from parent that is also cancelled when the session closes.
// Callers must call the returned cancel func.
func (s *Session) RequestContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Load fetches the full auction and replaces the snapshot, top bids and price together.
func (s *Session) Load(ctx context.Context) (models.Auction, error) {
	if s.Closed() {
		return models.Auction{}, fmt.Errorf("session: load %s: %w", s.auctionID, biddingerrors.ErrSessionClosed)
	}

	reqCtx, cancel := s.RequestContext(ctx)
	defer cancel()

	for attempt := 0; ; attempt++ {
		s.mu.RLock()
		generation := s.generation
		s.mu.RUnlock()

		auction, err := s.store.GetAuction(reqCtx, s.auctionID)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return models.Auction{}, fmt.Errorf("session: load %s: %w", s.auctionID, biddingerrors.ErrSessionClosed)
		}
		if err != nil {
			s.mu.Unlock()
			return models.Auction{}, fmt.Errorf("session: load %s: %w", s.auctionID, err)
		}

		if s.generation != generation {
			if attempt == 0 {
				s.mu.Unlock()
				utils.Debug("session: refetching snapshot read before a confirmed bid", map[string]any{
					"session_id": s.id,
					"auction_id": s.auctionID,
				})
				continue
			}
			// still racing confirmations; keep the held snapshot
			held := cloneAuction(*s.snapshot)
			s.mu.Unlock()
			utils.Warn("session: dropping stale snapshot", map[string]any{
				"session_id": s.id,
				"auction_id": s.auctionID,
			})
			return held, nil
		}

		held := cloneAuction(auction)
		s.snapshot = &held
		s.mu.Unlock()

		utils.Debug("session: snapshot refreshed", map[string]any{
			"session_id":    s.id,
			"auction_id":    s.auctionID,
			"current_price": held.PriceFloor().String(),
			"top_bids":      len(held.TopBids),
		})
		return cloneAuction(held), nil
	}
}

// Snapshot returns a copy of the held auction, if loaded
func (s *Session) Snapshot() (models.Auction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return models.Auction{}, false
	}
	return cloneAuction(*s.snapshot), true
}

// PriceFloor returns the amount the next bid must exceed
func (s *Session) PriceFloor() (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return decimal.Decimal{}, fmt.Errorf("session: price floor for %s: %w", s.auctionID, biddingerrors.ErrNoSnapshot)
	}
	return s.snapshot.PriceFloor(), nil
}

// ApplyConfirmedPrice patches current_price with a store-confirmed value.
// It never moves the price backwards and does nothing once the session is closed.
func (s *Session) ApplyConfirmedPrice(price decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.snapshot == nil {
		return false
	}
	if price.LessThan(s.snapshot.PriceFloor()) {
		utils.Warn("session: ignoring confirmed price below held price", map[string]any{
			"session_id": s.id,
			"auction_id": s.auctionID,
			"held":       s.snapshot.PriceFloor().String(),
			"confirmed":  price.String(),
		})
		return false
	}

	s.snapshot.CurrentPrice = decimal.NewNullDecimal(price)
	s.generation++
	return true
}

// Close tears the view down: in-flight requests are cancelled and late results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func cloneAuction(a models.Auction) models.Auction {
	if a.Tags != nil {
		a.Tags = append([]string(nil), a.Tags...)
	}
	if a.TopBids != nil {
		a.TopBids = append([]models.Bid(nil), a.TopBids...)
	}
	return a
}
