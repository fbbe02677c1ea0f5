package cmd

import (
	"fmt"
	"net/http"

	"github.com/mintfolio/go-marketplace/server"
	"github.com/mintfolio/go-marketplace/service/logger"
	sentryutil "github.com/mintfolio/go-marketplace/service/sentry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var port uint64

func init() {
	rootCmd.Flags().Uint64VarP(&port, "port", "p", 0, "port to serve on (defaults to the PORT env var)")
}

var rootCmd = &cobra.Command{
	Use:   "marketd",
	Short: "Run the marketplace ledger server",
	Long:  `An in-memory NFT marketplace ledger serving minting, sales, and auctions over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		defer sentryutil.RecoverAndRaise(nil)

		server.Init()

		if !cmd.Flags().Lookup("port").Changed {
			port = viper.GetUint64("PORT")
		}

		logger.For(nil).WithFields(logrus.Fields{"port": port}).Info("starting marketplace server")
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			logger.For(nil).WithError(err).Fatal("server exited")
		}
	},
}

func Execute() {
	rootCmd.Execute()
}
