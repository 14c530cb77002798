package auctionclient

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wire DTOs for the auction store contract

type placeBidRequest struct {
	BidderName string      `json:"bidder_name"`
	Amount     json.Number `json:"amount"`
}

type placeBidResponse struct {
	CurrentPrice decimal.NullDecimal `json:"current_price"`
}

type createAuctionRequest struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"image_url"`
	StartingPrice json.Number `json:"starting_price"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
	Tags          []string    `json:"tags"`
}

type createAuctionResponse struct {
	ID string `json:"id"`
}

// errorResponse is the store's rejection body; detail is usually a string but
// validation failures may send a structured value
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
