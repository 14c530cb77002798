// Package devstore is a runnable auction store implementing the remote contract
// the client consumes. It is used for local runs and end-to-end tests.
package devstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/internal/repository"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
)

// StoreService defines the business logic of the auction store
type StoreService struct {
	repo repository.AuctionDB
	now  repository.Clock
}

// NewStoreService creates a new StoreService instance
func NewStoreService(repo repository.AuctionDB, now repository.Clock) *StoreService {
	if now == nil {
		now = time.Now
	}
	return &StoreService{
		repo: repo,
		now:  now,
	}
}

// ListAuctions returns every auction summary
func (s *StoreService) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// GetAuction returns one auction with its top bids
func (s *StoreService) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrAuctionNotFound)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// PlaceBid validates input and lets the repository arbitrate the bid.
// Returns the new current price.
func (s *StoreService) PlaceBid(ctx context.Context, auctionID, bidderName string, amount decimal.Decimal) (decimal.Decimal, error) {
	bidderName = strings.TrimSpace(bidderName)
	if bidderName == "" {
		return decimal.Decimal{}, fmt.Errorf("service: %w", biddingerrors.ErrMissingBidder)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidAmount)
	}

	bid := models.Bid{
		ID:         utils.GenerateID(),
		BidderName: bidderName,
		Amount:     amount,
		CreatedAt:  models.NewTimestamp(s.now().UTC()),
	}

	price, err := s.repo.PlaceBid(ctx, auctionID, bid)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("service: failed to place bid on %s by %s: %w", auctionID, bidderName, err)
	}
	return price, nil
}

// CreateAuction checks field presence and stores a new auction. A zero start time means now.
func (s *StoreService) CreateAuction(ctx context.Context, na models.NewAuction) (string, error) {
	if err := s.validateAuction(&na); err != nil {
		return "", err
	}

	tags := na.Tags
	if tags == nil {
		tags = []string{}
	}

	auction := models.Auction{
		ID:            utils.GenerateID(),
		Title:         strings.TrimSpace(na.Title),
		Description:   na.Description,
		ImageURL:      na.ImageURL,
		StartingPrice: na.StartingPrice,
		StartTime:     models.NewTimestamp(na.StartTime.UTC()),
		EndTime:       models.NewTimestamp(na.EndTime.UTC()),
		Tags:          tags,
	}

	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return "", fmt.Errorf("service: failed to create auction %q: %w", auction.Title, err)
	}
	return auction.ID, nil
}

// validateAuction checks the creation fields and fills in a missing start time
func (s *StoreService) validateAuction(na *models.NewAuction) error {
	if strings.TrimSpace(na.Title) == "" {
		return fmt.Errorf("service: %w - missing title", biddingerrors.ErrInvalidAuction)
	}
	if na.StartingPrice.IsNegative() {
		return fmt.Errorf("service: %w - negative starting price", biddingerrors.ErrInvalidAuction)
	}
	if na.StartTime.IsZero() {
		na.StartTime = s.now()
	}
	if !na.EndTime.After(na.StartTime) {
		return fmt.Errorf("service: %w - end time must be after start time", biddingerrors.ErrInvalidAuction)
	}
	return nil
}
