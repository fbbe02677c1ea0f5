package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/env"
	"github.com/mintfolio/go-marketplace/service/persist"
)

const (
	// Context keys for auth data
	addressContextKey    = "auth.address"
	userAuthedContextKey = "auth.authenticated"
	authErrorContextKey  = "auth.auth_error"
)

// We don't want our cookies to expire, so their max age is arbitrarily set to 10 years.
// Note that browsers can still cap this expiration time (e.g. Brave limits cookies to 6 months).
const cookieMaxAge int = 60 * 60 * 24 * 365 * 10

// SetAuthStateForCtx records the result of auth validation on the gin context
func SetAuthStateForCtx(c *gin.Context, address persist.Address, err error) {
	c.Set(addressContextKey, address)
	c.Set(authErrorContextKey, err)
	c.Set(userAuthedContextKey, address != "" && err == nil)
}

// GetAddressFromCtx returns the authenticated wallet address from the context
func GetAddressFromCtx(c *gin.Context) persist.Address {
	return c.MustGet(addressContextKey).(persist.Address)
}

// GetUserAuthedFromCtx queries the context to determine whether the caller is authenticated
func GetUserAuthedFromCtx(c *gin.Context) bool {
	return c.GetBool(userAuthedContextKey)
}

func GetAuthErrorFromCtx(c *gin.Context) error {
	err := c.MustGet(authErrorContextKey)

	if err == nil {
		return nil
	}

	return err.(error)
}

// SetJWTCookie sets the JWT cookie on the response
func SetJWTCookie(c *gin.Context, token string) {
	mode := http.SameSiteStrictMode
	httpOnly := true
	secure := true

	clientIsLocalhost := c.Request.Header.Get("Origin") == "http://localhost:3000"

	if env.GetString("ENV") != "production" || clientIsLocalhost {
		mode = http.SameSiteNoneMode
		httpOnly = false
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     JWTCookieKey,
		Value:    token,
		MaxAge:   cookieMaxAge,
		Path:     "/",
		Secure:   secure,
		HttpOnly: httpOnly,
		SameSite: mode,
	})
}
