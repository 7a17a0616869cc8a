package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rugfork/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "rugfork",
		Short:        "RugFork trading backend",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live feed and background jobs",
		RunE:  runServe,
	})

	scoreCmd := &cobra.Command{
		Use:   "score <mint>",
		Short: "Print the rug score of a token mint",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
	scoreCmd.Flags().Int64("liquidity", 0, "pool liquidity in lamports")
	scoreCmd.Flags().Int64("volume", 0, "pool volume in lamports")
	scoreCmd.Flags().Duration("age", 0, "pool age, e.g. 36h")
	root.AddCommand(scoreCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the global logrus logger from cfg.
func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
