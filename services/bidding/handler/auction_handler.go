package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/services/bidding/helpers"
	"memorabilia-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const listPath = "/auctions"

type NavigatorInterface interface {
	List(ctx context.Context) ([]models.Auction, error)
	Open(ctx context.Context, auctionID string) (*bidding.Detail, error)
	Create(ctx context.Context, auction models.NewAuction) (*bidding.Detail, error)
	Current(auctionID string) (*bidding.Detail, bool)
	Leave()
}

type AuctionHandler struct {
	navigator NavigatorInterface
	now       func() time.Time
}

func NewAuctionHandler(navigator NavigatorInterface) *AuctionHandler {
	return &AuctionHandler{navigator: navigator, now: time.Now}
}

// ListAuctionsHandler handles GET /auctions. A store failure still renders an empty list.
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.navigator.List(c.Request.Context())
	if err != nil {
		utils.Error("ListAuctionsHandler: failed to load auctions", map[string]any{"error": err.Error()})
		utils.JSONResponse(c, http.StatusOK, helpers.ListView{
			Auctions: []helpers.AuctionCard{},
			Error:    "Failed to load auctions",
		}, "auctions unavailable")
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.BuildListView(auctions, h.now()), "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{"count": len(auctions)})
}

// GetAuctionHandler handles GET /auctions/:auction_id. Any load failure returns to the list.
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	detail, err := h.navigator.Open(c.Request.Context(), auctionID)
	if err != nil {
		reason := "store unavailable"
		if isNotFound(err) {
			reason = "auction not found"
		}
		utils.Warn("GetAuctionHandler: redirecting to list", map[string]any{
			"auction_id": auctionID,
			"reason":     reason,
			"error":      err.Error(),
		})
		c.Redirect(http.StatusFound, listPath)
		return
	}

	view, ok := h.detailView(detail)
	if !ok {
		c.Redirect(http.StatusFound, listPath)
		return
	}
	utils.JSONResponse(c, http.StatusOK, view, "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"session_id": detail.Session.ID(),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids against the open detail view
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	detail, ok := h.navigator.Current(auctionID)
	if !ok {
		err := fmt.Errorf("no open view for auction %s: %w", auctionID, biddingerrors.ErrSessionClosed)
		utils.JSONError(c, http.StatusNotFound, err, "auction is not open")
		utils.Warn("PlaceBidHandler: auction is not open", map[string]any{"auction_id": auctionID})
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	price, err := detail.Controller.Submit(c.Request.Context(), req.BidderName, string(req.Amount))
	view, _ := h.detailView(detail)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONErrorWithData(c, status, fmt.Errorf("%s: %w", message, err), message, view)
		logFn := utils.Warn
		if status >= http.StatusInternalServerError {
			logFn = utils.Error
		}
		logFn("PlaceBidHandler: bid not placed", map[string]any{
			"auction_id":  auctionID,
			"bidder_name": req.BidderName,
			"amount":      string(req.Amount),
			"error":       err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id":    auctionID,
		"bidder_name":   req.BidderName,
		"current_price": price.String(),
	})
}

// EditBidFormHandler handles PATCH /auctions/:auction_id/bid-form
func (h *AuctionHandler) EditBidFormHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	detail, ok := h.navigator.Current(auctionID)
	if !ok {
		err := fmt.Errorf("no open view for auction %s: %w", auctionID, biddingerrors.ErrSessionClosed)
		utils.JSONError(c, http.StatusNotFound, err, "auction is not open")
		return
	}

	var req helpers.EditBidFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "EditBidFormHandler", err)
		return
	}

	detail.Controller.Edit(req.BidderName, string(req.Amount))
	view, _ := h.detailView(detail)
	utils.JSONResponse(c, http.StatusOK, view, "bid form updated")
}

// LeaveAuctionHandler handles DELETE /auctions/:auction_id/session
func (h *AuctionHandler) LeaveAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	detail, ok := h.navigator.Current(auctionID)
	if !ok {
		err := fmt.Errorf("no open view for auction %s: %w", auctionID, biddingerrors.ErrSessionClosed)
		utils.JSONError(c, http.StatusNotFound, err, "auction is not open")
		return
	}

	h.navigator.Leave()
	utils.JSONResponse(c, http.StatusOK, nil, "left auction")
	helpers.LogSuccess("LeaveAuctionHandler", "left auction", map[string]any{
		"auction_id": auctionID,
		"session_id": detail.Session.ID(),
	})
}

// CreateAuctionHandler handles POST /auctions and opens the new auction's detail view
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	startingPrice, err := decimal.NewFromString(req.StartingPrice.String())
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	listing := models.NewListing(req.Title, startingPrice, time.Duration(req.DurationMinutes)*time.Minute, req.ImageURL, h.now())
	detail, err := h.navigator.Create(c.Request.Context(), listing)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"title": req.Title,
			"error": err.Error(),
		})
		return
	}

	view, _ := h.detailView(detail)
	utils.JSONResponse(c, http.StatusCreated, view, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": view.ID,
		"title":      req.Title,
	})
}

func (h *AuctionHandler) detailView(detail *bidding.Detail) (helpers.AuctionDetailView, bool) {
	auction, ok := detail.Session.Snapshot()
	if !ok {
		return helpers.AuctionDetailView{}, false
	}
	return helpers.BuildDetailView(auction, detail.Controller.View(), h.now()), true
}

func isNotFound(err error) bool {
	return errors.Is(err, biddingerrors.ErrAuctionNotFound)
}
