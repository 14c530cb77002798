package devstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StoreServiceInterface interface {
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (models.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderName string, amount decimal.Decimal) (decimal.Decimal, error)
	CreateAuction(ctx context.Context, auction models.NewAuction) (string, error)
}

type StoreHandler struct {
	service StoreServiceInterface
}

func NewStoreHandler(service StoreServiceInterface) *StoreHandler {
	return &StoreHandler{service: service}
}

// ListAuctionsHandler handles GET /auctions
func (h *StoreHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.ListAuctions(c.Request.Context())
	if err != nil {
		h.fail(c, "ListAuctionsHandler", err, map[string]any{})
		return
	}

	resp := make([]auctionSummary, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, toSummary(a))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *StoreHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		h.fail(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	c.JSON(http.StatusOK, toDetail(auction))
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *StoreHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONDetail(c, http.StatusUnprocessableEntity, "Invalid bid payload")
		utils.Warn("PlaceBidHandler: binding error", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(string(req.Amount))
	if err != nil {
		h.fail(c, "PlaceBidHandler", fmt.Errorf("%w: %w", biddingerrors.ErrInvalidAmount, err), map[string]any{"auction_id": auctionID})
		return
	}

	price, err := h.service.PlaceBid(c.Request.Context(), auctionID, req.BidderName, amount)
	if err != nil {
		h.fail(c, "PlaceBidHandler", err, map[string]any{
			"auction_id":  auctionID,
			"bidder_name": req.BidderName,
			"amount":      amount.String(),
		})
		return
	}

	c.JSON(http.StatusOK, placeBidResponse{CurrentPrice: models.JSONAmount(price)})
	utils.Info("PlaceBidHandler: bid accepted", map[string]any{
		"auction_id":    auctionID,
		"bidder_name":   req.BidderName,
		"current_price": price.String(),
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *StoreHandler) CreateAuctionHandler(c *gin.Context) {
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONDetail(c, http.StatusUnprocessableEntity, "Title, starting price and end time are required")
		utils.Warn("CreateAuctionHandler: binding error", map[string]any{"error": err.Error()})
		return
	}

	startingPrice, err := decimal.NewFromString(string(req.StartingPrice))
	if err != nil {
		h.fail(c, "CreateAuctionHandler", fmt.Errorf("%w: starting price: %w", biddingerrors.ErrInvalidAuction, err), map[string]any{})
		return
	}

	id, err := h.service.CreateAuction(c.Request.Context(), models.NewAuction{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		StartingPrice: startingPrice,
		StartTime:     req.StartTime.Time,
		EndTime:       req.EndTime.Time,
		Tags:          req.Tags,
	})
	if err != nil {
		h.fail(c, "CreateAuctionHandler", err, map[string]any{"title": req.Title})
		return
	}

	c.JSON(http.StatusOK, createAuctionResponse{ID: id})
	utils.Info("CreateAuctionHandler: auction created", map[string]any{"auction_id": id, "title": req.Title})
}

// fail writes the {"detail": ...} rejection body and logs the cause
func (h *StoreHandler) fail(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, detail := mapErrorToHTTP(err)
	utils.JSONDetail(c, status, detail)

	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// mapErrorToHTTP maps store errors to an HTTP status code and the detail text shown to bidders
func mapErrorToHTTP(err error) (int, string) {
	var tooLow *biddingerrors.TooLowError

	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "Auction not found"
	case errors.As(err, &tooLow):
		return http.StatusConflict, tooLow.Error()
	case errors.Is(err, biddingerrors.ErrAuctionEnded):
		return http.StatusConflict, "Auction has ended"
	case errors.Is(err, biddingerrors.ErrAuctionNotStarted):
		return http.StatusConflict, "Auction has not started"
	case errors.Is(err, biddingerrors.ErrMissingBidder):
		return http.StatusUnprocessableEntity, "Bidder name is required"
	case errors.Is(err, biddingerrors.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "Bid amount must be a positive number"
	case errors.Is(err, biddingerrors.ErrInvalidAuction):
		return http.StatusUnprocessableEntity, "Invalid auction"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
