package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/logger"
	sentryutil "github.com/mintfolio/go-marketplace/service/sentry"
	"github.com/mintfolio/go-marketplace/util"
	"github.com/sirupsen/logrus"
)

// AddAuthToContext is a middleware that validates auth data and stores the results in the context
func AddAuthToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwt, err := c.Cookie(auth.JWTCookieKey)

		// Treat empty cookies the same way we treat missing cookies, since setting a cookie to the empty
		// string is how we "delete" them.
		if err == nil && jwt == "" {
			err = http.ErrNoCookie
		}

		// Bearer tokens are accepted as a fallback for non-browser clients
		if err != nil {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				jwt = strings.TrimPrefix(header, "Bearer ")
				err = nil
			}
		}

		if err != nil {
			if err == http.ErrNoCookie {
				err = auth.ErrNoCookie
			}

			auth.SetAuthStateForCtx(c, "", err)
			c.Next()
			return
		}

		address, err := auth.ParseAuthToken(c.Request.Context(), jwt)
		auth.SetAuthStateForCtx(c, address, err)

		// If we have a successfully authenticated caller, add their address to all subsequent logging
		if err == nil {
			loggerCtx := logger.NewContextWithFields(c.Request.Context(), logrus.Fields{
				"authedAddress": address,
			})
			c.Request = c.Request.WithContext(loggerCtx)
		}

		c.Next()
	}
}

// AuthRequired aborts requests whose auth state was not populated with a valid address
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.GetUserAuthedFromCtx(c) {
			err := auth.GetAuthErrorFromCtx(c)
			if err == nil {
				err = auth.ErrInvalidJWT
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.ErrorResponse{Error: err.Error()})
			return
		}
		c.Next()
	}
}

// HandleCORS sets the CORS headers
func HandleCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		if IsOriginAllowed(requestOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, Set-Cookie, sentry-trace, baggage")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Content-Type, Set-Cookie")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ErrLogger is a middleware that logs errors
func ErrLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.For(c).Errorf("%s %s %s %s %s", c.Request.Method, c.Request.URL, c.ClientIP(), c.Request.Header.Get("User-Agent"), c.Errors.JSON())
		}
	}
}

// GinContextToContext is a middleware that adds the Gin context to the request context,
// allowing the Gin context to be retrieved from handlers that only receive a context.Context.
func GinContextToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), util.GinContextKey, c)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func Sentry(reportGinErrors bool) gin.HandlerFunc {
	handler := sentrygin.New(sentrygin.Options{Repanic: true})

	return func(c *gin.Context) {
		// Clone a new hub for each request
		hub := sentry.CurrentHub().Clone()

		// We scrub JWT cookies from error events with a BeforeSend hook on our Sentry client, but
		// according to Sentry docs, BeforeSend isn't called for tracing transactions. Instead, we
		// have to use an event processor to scrub JWT cookies from transactions, so add one here.
		hub.Scope().AddEventProcessor(sentryutil.ScrubEventCookies)

		// Add the cloned hub to the request context so sentrygin will find it
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		// Invoke the sentrygin handler. We don't call c.Next() here because sentrygin does it for us.
		handler(c)

		if reportGinErrors {
			for _, err := range c.Errors {
				sentryutil.ReportError(c.Request.Context(), err)
			}
		}
	}
}
