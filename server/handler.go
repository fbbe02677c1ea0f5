package server

import (
	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/middleware"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/util"
)

func handlersInit(router *gin.Engine, mkt *market.Marketplace, nonceStore auth.NonceStore) *gin.Engine {

	apiGroupV1 := router.Group("/mkt/v1", middleware.AddAuthToContext())

	// AUTH

	authGroup := apiGroupV1.Group("/auth")

	// called before login, to get the nonce the wallet must sign
	authGroup.GET("/get_preflight", getAuthPreflight(nonceStore))
	authGroup.POST("/login", login(nonceStore))
	authGroup.POST("/logout", logout())

	// TOKENS

	tokensGroup := apiGroupV1.Group("/tokens")

	tokensGroup.POST("/mint", middleware.AuthRequired(), mintToken(mkt))
	tokensGroup.GET("/get", getToken(mkt))
	tokensGroup.GET("/metadata", getTokenMetadata(mkt))
	tokensGroup.GET("/owned", getTokensForOwner(mkt))
	tokensGroup.GET("/count", getTokenCount(mkt))

	// MARKET

	marketGroup := apiGroupV1.Group("/market")

	marketGroup.POST("/list", middleware.AuthRequired(), listToken(mkt))
	marketGroup.POST("/delist", middleware.AuthRequired(), delistToken(mkt))
	marketGroup.POST("/buy", middleware.AuthRequired(), buyToken(mkt))
	marketGroup.POST("/bid", middleware.AuthRequired(), placeBid(mkt))

	// anyone can close an expired auction, so no auth here
	marketGroup.POST("/end_auction", endAuction(mkt))

	marketGroup.GET("/listings/get", getListing(mkt))

	// COLLECTIONS

	collectionsGroup := apiGroupV1.Group("/collections")

	collectionsGroup.GET("/get", getCollection(mkt))
	collectionsGroup.GET("/all", getCollections(mkt))

	// ADMIN

	adminGroup := apiGroupV1.Group("/admin")

	adminGroup.GET("/fee", getMarketplaceFee(mkt))
	adminGroup.POST("/update_fee", middleware.AuthRequired(), updateMarketplaceFee(mkt))

	// BANK

	bankGroup := apiGroupV1.Group("/bank")

	bankGroup.POST("/deposit", middleware.AuthRequired(), deposit(mkt))
	bankGroup.POST("/withdraw", middleware.AuthRequired(), withdraw(mkt))
	bankGroup.GET("/balance", getBalance(mkt))

	// HEALTH
	apiGroupV1.GET("/health", util.HealthCheckHandler())

	return router
}
