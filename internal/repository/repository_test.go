package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// Helper to create a live auction
func newAuction(id string, startingPrice int64) models.Auction {
	return models.Auction{
		ID:            id,
		Title:         fmt.Sprintf("%s title", id),
		Description:   fmt.Sprintf("%s description", id),
		StartingPrice: decimal.NewFromInt(startingPrice),
		StartTime:     models.NewTimestamp(fixedNow.Add(-time.Hour)),
		EndTime:       models.NewTimestamp(fixedNow.Add(time.Hour)),
		Tags:          []string{"sports", "memorabilia"},
	}
}

// Helper to create a new Bid
func newBid(bidID, bidder string, amount string) models.Bid {
	return models.Bid{
		ID:         bidID,
		BidderName: bidder,
		Amount:     decimal.RequireFromString(amount),
		CreatedAt:  models.NewTimestamp(fixedNow),
	}
}

func seededRepo(t *testing.T, auctions ...models.Auction) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepoWithClock(fixedClock)
	for _, a := range auctions {
		require.NoError(t, repo.CreateAuction(context.Background(), a))
	}
	return repo
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	start, end := fixedNow, fixedNow.Add(time.Hour)
	tests := []struct {
		name string
		now  time.Time
		want models.AuctionStatus
	}{
		{name: "before_start", now: start.Add(-time.Second), want: models.StatusPending},
		{name: "at_start", now: start, want: models.StatusLive},
		{name: "inside_window", now: start.Add(30 * time.Minute), want: models.StatusLive},
		{name: "at_end", now: end, want: models.StatusEnded},
		{name: "after_end", now: end.Add(time.Minute), want: models.StatusEnded},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, DeriveStatus(start, end, tc.now))
		})
	}
}

// Test CreateAuction
func TestMemoryRepo_CreateAuction(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t, newAuction("a1", 50))

	require.True(t, errors.Is(repo.CreateAuction(context.Background(), newAuction("a1", 10)), biddingerrors.ErrInvalidAuction))
	require.True(t, errors.Is(repo.CreateAuction(context.Background(), newAuction("", 10)), biddingerrors.ErrInvalidAuction))

	// a preset current price is ignored on creation
	preset := newAuction("a2", 10)
	preset.CurrentPrice = decimal.NewNullDecimal(decimal.NewFromInt(999))
	require.NoError(t, repo.CreateAuction(context.Background(), preset))
	got, err := repo.GetAuction(context.Background(), "a2")
	require.NoError(t, err)
	require.False(t, got.CurrentPrice.Valid)
}

// Test PlaceBid
func TestMemoryRepo_PlaceBid(t *testing.T) {
	t.Parallel()

	pending := newAuction("pending", 10)
	pending.StartTime = models.NewTimestamp(fixedNow.Add(time.Hour))
	pending.EndTime = models.NewTimestamp(fixedNow.Add(2 * time.Hour))

	ended := newAuction("ended", 10)
	ended.StartTime = models.NewTimestamp(fixedNow.Add(-2 * time.Hour))
	ended.EndTime = models.NewTimestamp(fixedNow.Add(-time.Hour))

	// Table-driven test cases
	tests := []struct {
		name          string
		auctionID     string
		bid           models.Bid
		expectedError error
	}{
		{name: "above_starting_price", auctionID: "a1", bid: newBid("b1", "Ana", "75")},
		{name: "equal_to_starting_price", auctionID: "a1", bid: newBid("b1", "Ana", "50"), expectedError: biddingerrors.ErrBidTooLow},
		{name: "below_starting_price", auctionID: "a1", bid: newBid("b1", "Ana", "40"), expectedError: biddingerrors.ErrBidTooLow},
		{name: "auction_not_found", auctionID: "nope", bid: newBid("b1", "Ana", "75"), expectedError: biddingerrors.ErrAuctionNotFound},
		{name: "auction_pending", auctionID: "pending", bid: newBid("b1", "Ana", "75"), expectedError: biddingerrors.ErrAuctionNotStarted},
		{name: "auction_ended", auctionID: "ended", bid: newBid("b1", "Ana", "75"), expectedError: biddingerrors.ErrAuctionEnded},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel() // Run table test cases in parallel

			repo := seededRepo(t, newAuction("a1", 50), pending, ended)
			price, err := repo.PlaceBid(context.Background(), tc.auctionID, tc.bid)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}
			require.NoError(t, err)
			require.True(t, price.Equal(tc.bid.Amount))

			a, err := repo.GetAuction(context.Background(), tc.auctionID)
			require.NoError(t, err)
			require.True(t, a.CurrentPrice.Valid)
			require.True(t, a.CurrentPrice.Decimal.Equal(tc.bid.Amount))
		})
	}

	// Sequential bids: each must beat the last accepted one
	t.Run("sequential_bids", func(t *testing.T) {
		t.Parallel()

		repo := seededRepo(t, newAuction("a1", 50))
		_, err := repo.PlaceBid(context.Background(), "a1", newBid("b1", "Ana", "75"))
		require.NoError(t, err)
		_, err = repo.PlaceBid(context.Background(), "a1", newBid("b2", "Ben", "80"))
		require.NoError(t, err)
		_, err = repo.PlaceBid(context.Background(), "a1", newBid("b3", "Cal", "80"))

		var tooLow *biddingerrors.TooLowError
		require.True(t, errors.As(err, &tooLow))
		require.Equal(t, "80.00", tooLow.Floor.StringFixed(2))
	})

	// concurrency test: the same amount raced by many bidders is accepted exactly once
	t.Run("concurrent_equal_bids", func(t *testing.T) {
		t.Parallel()

		repo := seededRepo(t, newAuction("a1", 75))

		var wg sync.WaitGroup
		var accepted atomic.Int32
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				_, err := repo.PlaceBid(context.Background(), "a1", newBid(fmt.Sprintf("bid-%d", i), fmt.Sprintf("user-%d", i), "80"))
				if err == nil {
					accepted.Add(1)
					return
				}
				require.True(t, errors.Is(err, biddingerrors.ErrBidTooLow))
			}()
		}

		wg.Wait()
		require.Equal(t, int32(1), accepted.Load())

		a, err := repo.GetAuction(context.Background(), "a1")
		require.NoError(t, err)
		require.Len(t, a.TopBids, 1)
	})
}

// Test GetAuction
func TestMemoryRepo_GetAuction(t *testing.T) {
	t.Parallel()

	repo := seededRepo(t, newAuction("a1", 50), newAuction("a2", 10))
	for i := 0; i < 8; i++ {
		_, err := repo.PlaceBid(context.Background(), "a1", newBid(fmt.Sprintf("b%d", i), "Ana", fmt.Sprintf("%d", 60+i)))
		require.NoError(t, err)
	}

	tests := []struct {
		name        string
		auctionID   string
		wantTopBids []string
		wantPrice   string
		wantError   bool
	}{
		{name: "with_bids_top_five_descending", auctionID: "a1", wantTopBids: []string{"b7", "b6", "b5", "b4", "b3"}, wantPrice: "67.00"},
		{name: "without_bids", auctionID: "a2", wantTopBids: nil, wantPrice: "10.00"},
		{name: "not_found", auctionID: "zzz", wantError: true},
		{name: "empty_auctionID", auctionID: "", wantError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a, err := repo.GetAuction(context.Background(), tc.auctionID)
			if tc.wantError {
				require.True(t, errors.Is(err, biddingerrors.ErrAuctionNotFound))
				return
			}
			require.NoError(t, err)
			require.Equal(t, models.StatusLive, a.Status)
			require.Equal(t, tc.wantPrice, a.PriceFloor().StringFixed(2))

			var ids []string
			for _, b := range a.TopBids {
				ids = append(ids, b.ID)
			}
			require.Equal(t, tc.wantTopBids, ids)
		})
	}

	// Concurrent read test
	t.Run("concurrent_reads", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a, err := repo.GetAuction(context.Background(), "a1")
				require.NoError(t, err)
				require.Len(t, a.TopBids, TopBidsLimit)
			}()
		}
		wg.Wait()
	})
}

// Test ListAuctions
func TestMemoryRepo_ListAuctions(t *testing.T) {
	t.Parallel()

	empty := NewMemoryRepoWithClock(fixedClock)
	auctions, err := empty.ListAuctions(context.Background())
	require.NoError(t, err)
	require.NotNil(t, auctions)
	require.Empty(t, auctions)

	repo := seededRepo(t, newAuction("a1", 50), newAuction("a2", 10), newAuction("a3", 99))
	_, err = repo.PlaceBid(context.Background(), "a2", newBid("b1", "Ana", "11"))
	require.NoError(t, err)

	auctions, err = repo.ListAuctions(context.Background())
	require.NoError(t, err)
	require.Len(t, auctions, 3)
	require.Equal(t, []string{"a1", "a2", "a3"}, []string{auctions[0].ID, auctions[1].ID, auctions[2].ID})
	require.Equal(t, "11.00", auctions[1].PriceFloor().StringFixed(2))
	for _, a := range auctions {
		require.Empty(t, a.TopBids)
		require.Equal(t, models.StatusLive, a.Status)
	}
}
