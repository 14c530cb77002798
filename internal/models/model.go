package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the bidding-window state reported by the store
type AuctionStatus string

const (
	StatusPending AuctionStatus = "pending"
	StatusLive    AuctionStatus = "live"
	StatusEnded   AuctionStatus = "ended"
)

// Auction represents a timed sale of a single item
type Auction struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	ImageURL      string              `json:"image_url"`
	StartingPrice decimal.Decimal     `json:"starting_price"`
	CurrentPrice  decimal.NullDecimal `json:"current_price"`
	StartTime     Timestamp           `json:"start_time"`
	EndTime       Timestamp           `json:"end_time"`
	Status        AuctionStatus       `json:"status"`
	Tags          []string            `json:"tags"`
	TopBids       []Bid               `json:"top_bids,omitempty"`
}

// PriceFloor returns the amount a new bid must exceed: the current price
// if the store reported one, else the starting price.
func (a Auction) PriceFloor() decimal.Decimal {
	if a.CurrentPrice.Valid {
		return a.CurrentPrice.Decimal
	}
	return a.StartingPrice
}

// Bid represents a bidder's accepted offer on an auction
type Bid struct {
	ID         string          `json:"id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  Timestamp       `json:"created_at,omitempty"`
}

// NewAuction carries the fields needed to create an auction
type NewAuction struct {
	Title         string
	Description   string
	ImageURL      string
	StartingPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	Tags          []string
}

// Defaults applied to auctions listed through the short create form
const DefaultDescription = "Official team merchandise"

// DefaultTags returns the tags given to auctions listed through the short create form
func DefaultTags() []string {
	return []string{"sports", "memorabilia"}
}

// NewListing builds a creation request that opens at now and runs for duration
func NewListing(title string, startingPrice decimal.Decimal, duration time.Duration, imageURL string, now time.Time) NewAuction {
	start := now.UTC()
	return NewAuction{
		Title:         title,
		Description:   DefaultDescription,
		ImageURL:      imageURL,
		StartingPrice: startingPrice,
		StartTime:     start,
		EndTime:       start.Add(duration),
		Tags:          DefaultTags(),
	}
}
