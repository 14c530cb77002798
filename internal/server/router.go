package server

import (
	"net/http"

	"memorabilia-auction/internal/metrics"
	handler "memorabilia-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// SetupRouter configures all Gin routes of the view server.
// A nil gatherer leaves /metrics unregistered.
func SetupRouter(navigator handler.NavigatorInterface, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(navigator)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		auctions.PATCH("/:auction_id/bid-form", auctionHandler.EditBidFormHandler)
		auctions.DELETE("/:auction_id/session", auctionHandler.LeaveAuctionHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}

	return router
}
