package devstore

import (
	"encoding/json"

	"memorabilia-auction/internal/models"
)

// Request/Response DTOs. Money travels as JSON numbers carrying the exact decimal text.

type placeBidRequest struct {
	BidderName string      `json:"bidder_name"`
	Amount     json.Number `json:"amount" binding:"required"`
}

type placeBidResponse struct {
	CurrentPrice json.Number `json:"current_price"`
}

type createAuctionRequest struct {
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	ImageURL      string           `json:"image_url"`
	StartingPrice json.Number      `json:"starting_price" binding:"required"`
	StartTime     models.Timestamp `json:"start_time"`
	EndTime       models.Timestamp `json:"end_time"`
	Tags          []string         `json:"tags"`
}

type createAuctionResponse struct {
	ID string `json:"id"`
}

type bidResponse struct {
	ID         string           `json:"id"`
	BidderName string           `json:"bidder_name"`
	Amount     json.Number      `json:"amount"`
	CreatedAt  models.Timestamp `json:"created_at"`
}

type auctionSummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	ImageURL      string               `json:"image_url"`
	StartingPrice json.Number          `json:"starting_price"`
	CurrentPrice  *json.Number         `json:"current_price"`
	StartTime     models.Timestamp     `json:"start_time"`
	EndTime       models.Timestamp     `json:"end_time"`
	Status        models.AuctionStatus `json:"status"`
	Tags          []string             `json:"tags"`
}

type auctionDetail struct {
	auctionSummary
	TopBids []bidResponse `json:"top_bids"`
}

func toSummary(a models.Auction) auctionSummary {
	s := auctionSummary{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		StartingPrice: models.JSONAmount(a.StartingPrice),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        a.Status,
		Tags:          a.Tags,
	}
	if a.CurrentPrice.Valid {
		price := models.JSONAmount(a.CurrentPrice.Decimal)
		s.CurrentPrice = &price
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s
}

func toDetail(a models.Auction) auctionDetail {
	bids := make([]bidResponse, 0, len(a.TopBids))
	for _, b := range a.TopBids {
		bids = append(bids, bidResponse{
			ID:         b.ID,
			BidderName: b.BidderName,
			Amount:     models.JSONAmount(b.Amount),
			CreatedAt:  b.CreatedAt,
		})
	}
	return auctionDetail{auctionSummary: toSummary(a), TopBids: bids}
}
