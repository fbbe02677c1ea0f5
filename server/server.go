package server

import (
	"net/http"

	sentry "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mintfolio/go-marketplace/env"
	"github.com/mintfolio/go-marketplace/middleware"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/event"
	"github.com/mintfolio/go-marketplace/service/logger"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/mintfolio/go-marketplace/service/redis"
	sentryutil "github.com/mintfolio/go-marketplace/service/sentry"
	"github.com/mintfolio/go-marketplace/util"
	"github.com/mintfolio/go-marketplace/validate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func init() {
	env.RegisterValidation("OPERATOR_ADDRESS", "required", "eth_addr")
	env.RegisterValidation("JWT_SECRET", "required")
}

// Init initializes the server
func Init() {

	setDefaults()

	logger.InitWithDefaults(env.GetString("ENV"))
	initSentry()

	router := CoreInit(newMarketplace(), newNonceStore())

	http.Handle("/", router)
}

// CoreInit initializes core server functionality. This is abstracted
// so the test server can also utilize it
func CoreInit(mkt *market.Marketplace, nonceStore auth.NonceStore) *gin.Engine {
	logger.For(nil).Info("initializing server...")

	if env.GetString("ENV") != "production" {
		gin.SetMode(gin.DebugMode)
		logrus.SetLevel(logrus.DebugLevel)
	}

	router := gin.Default()
	router.Use(middleware.Sentry(true), middleware.HandleCORS(), middleware.GinContextToContext(), middleware.ErrLogger())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		logger.For(nil).Info("registering validation")
		validate.RegisterCustomValidators(v)
	}

	return handlersInit(router, mkt, nonceStore)
}

// newMarketplace builds the ledger from environment configuration and wires
// its event pipeline
func newMarketplace() *market.Marketplace {
	operator := persist.NewAddress(env.GetString("OPERATOR_ADDRESS"))
	if !operator.IsValid() {
		panic("OPERATOR_ADDRESS is not a valid address")
	}

	mkt := market.New(operator)

	dispatcher := event.NewDispatcher()
	handlers := []event.Handler{event.LogHandler{}}
	if host := env.GetString("INDEXER_HOST"); host != "" {
		handlers = append(handlers, event.NewWebhookHandler(host+"/events"))
	}
	for _, typ := range []market.EventType{
		market.EventTypeTransfer,
		market.EventTypeMinted,
		market.EventTypeListed,
		market.EventTypeDelisted,
		market.EventTypeBidPlaced,
		market.EventTypeSale,
		market.EventTypeAuctionEnded,
	} {
		dispatcher.AddHandler(typ, handlers...)
	}
	mkt.AddListener(dispatcher)

	return mkt
}

func newNonceStore() auth.NonceStore {
	// local runs don't require a redis to be up
	if env.GetString("ENV") == "local" {
		return auth.NewInMemoryNonceStore()
	}
	return redis.NewNonceStore()
}

func setDefaults() {
	viper.SetDefault("ENV", "local")
	viper.SetDefault("PORT", 4000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("JWT_SECRET", "Test-Secret")
	viper.SetDefault("JWT_TTL", 60*60*24*14)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_PASS", "")
	viper.SetDefault("INDEXER_HOST", "")
	viper.SetDefault("OPERATOR_ADDRESS", "0x8914496dc01efcc49a2fa340331fb90969b6f1d2")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.2)
	viper.SetDefault("VERSION", "")

	viper.AutomaticEnv()

	if env.GetString("ENV") != "local" {
		logger.For(nil).Info("running in non-local environment, skipping environment configuration")
		util.VarNotSetTo("JWT_SECRET", "Test-Secret")
		util.VarNotSetTo("SENTRY_DSN", "")
	} else {
		util.LoadEnvFile("local.yaml")
	}
}

func initSentry() {
	if env.GetString("ENV") == "local" {
		logger.For(nil).Info("skipping sentry init")
		return
	}

	logger.For(nil).Info("initializing sentry...")

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              env.GetString("SENTRY_DSN"),
		Environment:      env.GetString("ENV"),
		TracesSampleRate: viper.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
		Release:          env.GetString("VERSION"),
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event = sentryutil.ScrubEventCookies(event, hint)
			event = sentryutil.UpdateErrorFingerprints(event, hint)
			return event
		},
	})

	if err != nil {
		logger.For(nil).Fatalf("failed to start sentry: %s", err)
	}
}
