package helpers

import (
	"encoding/json"
)

// RawAmount is the bid amount exactly as typed. It accepts a JSON string or number
// so that unparsable input reaches the validator instead of failing binding.
type RawAmount string

func (r *RawAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RawAmount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RawAmount(n.String())
	return nil
}

// Request DTOs
type PlaceBidRequest struct {
	BidderName string    `json:"bidder_name"`
	Amount     RawAmount `json:"amount"`
}

type EditBidFormRequest struct {
	BidderName string    `json:"bidder_name"`
	Amount     RawAmount `json:"amount"`
}

type CreateAuctionRequest struct {
	Title           string      `json:"title" binding:"required"`
	StartingPrice   json.Number `json:"starting_price" binding:"required"`
	DurationMinutes int         `json:"duration_minutes" binding:"required,gt=0"`
	ImageURL        string      `json:"image_url"`
}

// View models

type ListView struct {
	Auctions []AuctionCard `json:"auctions"`
	Error    string        `json:"error,omitempty"`
}

type AuctionCard struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	ImageURL string   `json:"image_url,omitempty"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
	Price    string   `json:"price"`
	Ends     string   `json:"ends,omitempty"`
}

type BidRow struct {
	BidderName string `json:"bidder_name"`
	Amount     string `json:"amount"`
	Placed     string `json:"placed,omitempty"`
}

type BidPanel struct {
	State       string `json:"state"`
	Error       string `json:"error,omitempty"`
	BidderName  string `json:"bidder_name"`
	Amount      string `json:"amount"`
	Placeholder string `json:"placeholder"`
	SubmitLabel string `json:"submit_label"`
	Disabled    bool   `json:"disabled"`
}

type AuctionDetailView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url,omitempty"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	StartingPrice string   `json:"starting_price"`
	CurrentPrice  string   `json:"current_price"`
	Ends          string   `json:"ends,omitempty"`
	TopBids       []BidRow `json:"top_bids"`
	Panel         BidPanel `json:"bid_panel"`
}
