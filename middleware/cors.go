package middleware

import (
	"strings"

	"github.com/mintfolio/go-marketplace/env"
	"github.com/mintfolio/go-marketplace/util"
)

func IsOriginAllowed(requestOrigin string) bool {
	if env.GetString("ENV") == "local" {
		return true
	}
	allowedOrigins := strings.Split(env.GetString("ALLOWED_ORIGINS"), ",")

	return util.ContainsString(allowedOrigins, requestOrigin)
}
