package server

import (
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/mintfolio/go-marketplace/util"
)

// INPUT - TOKEN_MINT
type mintTokenInput struct {
	Name        string `json:"name" binding:"token_name"`
	Description string `json:"description" binding:"token_note"`
	ContentURI  string `json:"content_uri"`
	Category    string `json:"category"`
	Collection  string `json:"collection" binding:"collection_name"`
	RoyaltyBps  uint64 `json:"royalty_bps"`
}

// OUTPUT - TOKEN_MINT
type mintTokenOutput struct {
	TokenID persist.TokenID `json:"token_id"`
}

// INPUT - MARKET_LIST
type listTokenInput struct {
	TokenID         persist.TokenID `json:"token_id" binding:"required"`
	Price           *big.Int        `json:"price" binding:"required"`
	IsAuction       bool            `json:"is_auction"`
	DurationSeconds int64           `json:"duration_seconds"`
}

// INPUT - MARKET_BUY
type buyTokenInput struct {
	TokenID persist.TokenID `json:"token_id" binding:"required"`
	Payment *big.Int        `json:"payment" binding:"required"`
}

// INPUT - MARKET_BID
type placeBidInput struct {
	TokenID persist.TokenID `json:"token_id" binding:"required"`
	Bid     *big.Int        `json:"bid" binding:"required"`
}

// INPUT - MARKET_TOKEN_ONLY
type tokenOnlyInput struct {
	TokenID persist.TokenID `json:"token_id" binding:"required"`
}

// INPUT - ADMIN_UPDATE_FEE
type updateFeeInput struct {
	FeeBps uint64 `json:"fee_bps"`
}

func mintToken(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &mintTokenInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		tokenID, err := mkt.Mint(c, caller, market.MintInput{
			Name:        input.Name,
			Description: input.Description,
			ContentURI:  input.ContentURI,
			Category:    input.Category,
			Collection:  input.Collection,
			RoyaltyBps:  input.RoyaltyBps,
		})
		if err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, mintTokenOutput{TokenID: tokenID})
	}
}

func listToken(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &listTokenInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)
		duration := time.Duration(input.DurationSeconds) * time.Second

		if err := mkt.List(c, caller, input.TokenID, input.Price, input.IsAuction, duration); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func delistToken(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &tokenOnlyInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.Delist(c, caller, input.TokenID); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func buyToken(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &buyTokenInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.Buy(c, caller, input.TokenID, input.Payment); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func placeBid(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &placeBidInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.PlaceBid(c, caller, input.TokenID, input.Bid); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func endAuction(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &tokenOnlyInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		// closing an expired auction is permissionless; pass whatever address
		// we have (possibly none) for event attribution
		var caller persist.Address
		if auth.GetUserAuthedFromCtx(c) {
			caller = auth.GetAddressFromCtx(c)
		}

		if err := mkt.EndAuction(c, caller, input.TokenID); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func updateMarketplaceFee(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &updateFeeInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.UpdateMarketplaceFee(c, caller, input.FeeBps); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

// marketErrResponse maps a ledger rejection to an HTTP status and includes
// the stable failure code in the body so clients can match on it
func marketErrResponse(c *gin.Context, err error) {
	c.Error(err)

	code := market.CodeOf(err)

	// read paths report missing records with typed persist errors
	switch err.(type) {
	case persist.ErrTokenNotFoundByID, persist.ErrListingNotFoundByTokenID, persist.ErrCollectionNotFoundByName:
		code = market.CodeNotFound
	}

	status := http.StatusBadRequest
	switch code {
	case market.CodeNotFound:
		status = http.StatusNotFound
	case market.CodeNotOperator:
		status = http.StatusForbidden
	case "":
		status = http.StatusInternalServerError
	}

	c.JSON(status, util.ErrorResponse{Error: err.Error(), Code: string(code)})
}
