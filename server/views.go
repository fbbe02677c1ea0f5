package server

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/mintfolio/go-marketplace/util"
)

type getTokenInput struct {
	TokenID persist.TokenID `form:"token_id" binding:"required"`
}

type getTokenOutput struct {
	Token persist.Token   `json:"token"`
	Owner persist.Address `json:"owner"`
}

type getTokensForOwnerInput struct {
	Address persist.Address `form:"address" binding:"required,eth_addr"`
}

type getTokensForOwnerOutput struct {
	TokenIDs []persist.TokenID `json:"token_ids"`
}

type getTokenCountOutput struct {
	Count uint64 `json:"count"`
}

type getListingOutput struct {
	Listing persist.Listing `json:"listing"`
}

type getCollectionInput struct {
	Name string `form:"name" binding:"required,collection_name"`
}

type getCollectionOutput struct {
	Collection persist.Collection `json:"collection"`
}

type getCollectionsOutput struct {
	Collections []persist.Collection `json:"collections"`
}

type getFeeOutput struct {
	FeeBps   uint64          `json:"fee_bps"`
	Operator persist.Address `json:"operator"`
}

type getBalanceInput struct {
	Address persist.Address `form:"address" binding:"required,eth_addr"`
}

type getBalanceOutput struct {
	Address persist.Address `json:"address"`
	Balance *big.Int        `json:"balance"`
}

func getToken(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getTokenInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		token, err := mkt.GetToken(c, input.TokenID)
		if err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, getTokenOutput{Token: token, Owner: token.Owner})
	}
}

func getTokenMetadata(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getTokenInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		metadata, err := mkt.MetadataOf(c, input.TokenID)
		if err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, metadata)
	}
}

func getTokensForOwner(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getTokensForOwnerInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		tokenIDs := mkt.TokensOwnedBy(c, input.Address)

		c.JSON(http.StatusOK, getTokensForOwnerOutput{TokenIDs: tokenIDs})
	}
}

func getTokenCount(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, getTokenCountOutput{Count: mkt.TokenCount(c)})
	}
}

func getListing(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getTokenInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		listing, err := mkt.GetListing(c, input.TokenID)
		if err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, getListingOutput{Listing: listing})
	}
}

func getCollection(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getCollectionInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		collection, err := mkt.GetCollection(c, input.Name)
		if err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, getCollectionOutput{Collection: collection})
	}
}

func getCollections(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, getCollectionsOutput{Collections: mkt.GetCollections(c)})
	}
}

func getMarketplaceFee(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, getFeeOutput{FeeBps: mkt.MarketplaceFee(c), Operator: mkt.Operator()})
	}
}
