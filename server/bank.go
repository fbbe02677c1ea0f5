package server

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/util"
)

type bankAmountInput struct {
	Amount *big.Int `json:"amount" binding:"required"`
}

func deposit(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &bankAmountInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.Deposit(c, caller, input.Amount); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, getBalanceOutput{Address: caller, Balance: mkt.BalanceOf(c, caller)})
	}
}

func withdraw(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &bankAmountInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		caller := auth.GetAddressFromCtx(c)

		if err := mkt.Withdraw(c, caller, input.Amount); err != nil {
			marketErrResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, getBalanceOutput{Address: caller, Balance: mkt.BalanceOf(c, caller)})
	}
}

func getBalance(mkt *market.Marketplace) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := &getBalanceInput{}
		if err := c.ShouldBindQuery(input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		c.JSON(http.StatusOK, getBalanceOutput{Address: input.Address, Balance: mkt.BalanceOf(c, input.Address)})
	}
}
