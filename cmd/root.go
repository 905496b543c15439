package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/spf13/cobra"
	"github.com/tuannha-ct/merch-bot/internal/app"
	"github.com/tuannha-ct/merch-bot/internal/kafka"
	"github.com/tuannha-ct/merch-bot/internal/server"
)

var rootCmd = &cobra.Command{
	Use:           "merch-bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			kafka.StartConsumeMessages,
		).Run()
	},
}

// apiCmd runs the webhook API alone, without the Kafka consumer.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the HTTP API without the Kafka consumer",
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
		).Run()
	},
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
