package devstore

import (
	"memorabilia-auction/internal/server"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the store's Gin routes
func SetupRouter(service StoreServiceInterface) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(server.RequestLoggerMiddleware)

	storeHandler := NewStoreHandler(service)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", storeHandler.ListAuctionsHandler)
		auctions.POST("", storeHandler.CreateAuctionHandler)
		auctions.GET("/:auction_id", storeHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", storeHandler.PlaceBidHandler)
	}

	return router
}
