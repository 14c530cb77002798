package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"

	"github.com/shopspring/decimal"
)

// TopBidsLimit is how many of the highest bids an auction detail carries
const TopBidsLimit = 5

// AuctionDB defines the auction storage interface of the development store.
// PlaceBid is the arbitration point: it must check and record a bid atomically.
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction models.Auction) error
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (models.Auction, error)
	PlaceBid(ctx context.Context, auctionID string, bid models.Bid) (decimal.Decimal, error)
}

// Clock returns the current time; arbitration reads the bidding window against it
type Clock func() time.Time

// DeriveStatus computes an auction's status from its bidding window
func DeriveStatus(start, end, now time.Time) models.AuctionStatus {
	switch {
	case !start.IsZero() && now.Before(start):
		return models.StatusPending
	case !end.IsZero() && !now.Before(end):
		return models.StatusEnded
	default:
		return models.StatusLive
	}
}

// checkBid applies the arbitration rules to a held auction
func checkBid(auction models.Auction, amount decimal.Decimal, now time.Time) error {
	switch DeriveStatus(auction.StartTime.Time, auction.EndTime.Time, now) {
	case models.StatusPending:
		return biddingerrors.ErrAuctionNotStarted
	case models.StatusEnded:
		return biddingerrors.ErrAuctionEnded
	}

	if floor := auction.PriceFloor(); !amount.GreaterThan(floor) {
		return &biddingerrors.TooLowError{Floor: floor}
	}
	return nil
}

type auctionRecord struct {
	auction models.Auction
	bids    []models.Bid // ascending by amount: each accepted bid beats the previous one
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu       sync.RWMutex
	auctions map[string]*auctionRecord // key: auctionID -> value: auction and its bids
	order    []string                  // auction IDs in creation order
	now      Clock
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return NewMemoryRepoWithClock(time.Now)
}

// NewMemoryRepoWithClock creates a repository that reads time from now
func NewMemoryRepoWithClock(now Clock) *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]*auctionRecord),
		now:      now,
	}
}

// CreateAuction stores a new auction; current price starts unset
func (r *MemoryRepo) CreateAuction(_ context.Context, auction models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if auction.ID == "" {
		return fmt.Errorf("repo: create auction: %w - empty auction ID", biddingerrors.ErrInvalidAuction)
	}
	if _, exists := r.auctions[auction.ID]; exists {
		return fmt.Errorf("repo: create auction %s: %w - duplicate auction ID", auction.ID, biddingerrors.ErrInvalidAuction)
	}

	auction.CurrentPrice = decimal.NullDecimal{}
	auction.TopBids = nil
	r.auctions[auction.ID] = &auctionRecord{auction: auction}
	r.order = append(r.order, auction.ID)
	return nil
}

// ListAuctions returns auction summaries in creation order, without top bids
func (r *MemoryRepo) ListAuctions(_ context.Context) ([]models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	auctions := make([]models.Auction, 0, len(r.order))
	for _, id := range r.order {
		a := r.auctions[id].auction
		a.Status = DeriveStatus(a.StartTime.Time, a.EndTime.Time, now)
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// GetAuction returns one auction with its highest bids
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("repo: get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	a := rec.auction
	a.Status = DeriveStatus(a.StartTime.Time, a.EndTime.Time, r.now())
	a.TopBids = topBids(rec.bids)
	return a, nil
}

// PlaceBid arbitrates a bid: it is recorded only if the auction is live and the
// amount exceeds the current price at this moment. Returns the new current price.
func (r *MemoryRepo) PlaceBid(_ context.Context, auctionID string, bid models.Bid) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.auctions[auctionID]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("repo: place bid on %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	if err := checkBid(rec.auction, bid.Amount, r.now()); err != nil {
		return decimal.Decimal{}, fmt.Errorf("repo: place bid on %s: %w", auctionID, err)
	}

	rec.bids = append(rec.bids, bid)
	rec.auction.CurrentPrice = decimal.NewNullDecimal(bid.Amount)
	return bid.Amount, nil
}

// topBids returns up to TopBidsLimit bids, highest first
func topBids(bids []models.Bid) []models.Bid {
	sorted := append([]models.Bid(nil), bids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > TopBidsLimit {
		sorted = sorted[:TopBidsLimit]
	}
	return sorted
}
