package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/util"
)

func getAuthPreflight(nonceStore auth.NonceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := auth.GetPreflightInput{}
		if err := c.ShouldBindQuery(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := auth.GetPreflight(c, input, nonceStore)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, output)
	}
}

func login(nonceStore auth.NonceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := auth.LoginInput{}
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := auth.Login(c, input, nonceStore)
		if err != nil {
			util.ErrResponse(c, http.StatusUnauthorized, err)
			return
		}

		auth.SetAuthStateForCtx(c, output.Address, nil)
		auth.SetJWTCookie(c, output.JWT)

		c.JSON(http.StatusOK, output)
	}
}

func logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetAuthStateForCtx(c, "", auth.ErrNoCookie)
		auth.SetJWTCookie(c, "")
		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}
