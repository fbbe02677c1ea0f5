package util

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mintfolio/go-marketplace/service/logger"
	"github.com/spf13/viper"
)

// GinContextKey is the key the GinContextToContext middleware stores the
// gin.Context under in the request context
const GinContextKey string = "GinContextKey"

// ContainsString checks whether an item exists in a slice of strings
func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// Contains checks whether an item exists in a slice
func Contains[T comparable](s []T, item T) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

// GinContextFromContext retrieves a gin.Context previously stored in the
// request context via the GinContextToContext middleware, or panics if no
// gin.Context can be retrieved
func GinContextFromContext(ctx context.Context) *gin.Context {
	if gc, ok := ctx.(*gin.Context); ok {
		return gc
	}

	ginContext := ctx.Value(GinContextKey)
	if ginContext == nil {
		panic("gin.Context not found in current context")
	}

	gc, ok := ginContext.(*gin.Context)
	if !ok {
		panic("gin.Context has wrong type")
	}

	return gc
}

// LoadEnvFile configures viper to read the given env file if it exists;
// missing files are logged and skipped so local runs work with defaults
func LoadEnvFile(filename string) {
	if _, err := os.Stat(filename); err != nil {
		logger.For(nil).Infof("env file %s not found, using defaults", filename)
		return
	}

	viper.SetConfigFile(filename)
	if err := viper.MergeInConfig(); err != nil {
		panic(err)
	}
}

// VarNotSetTo panics if an environment variable is set to the given (usually
// placeholder) value outside local environments
func VarNotSetTo(varName string, val string) {
	if viper.GetString(varName) == val {
		panic("environment variable " + varName + " must not be set to " + val)
	}
}
