package main

import (
	"os"

	"github.com/billix/billix-be/config"
	"github.com/billix/billix-be/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFiles []string

func main() {
	root := &cobra.Command{
		Use:           "billix",
		Short:         "Billix backend: community, rewards, relief and swaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")
	root.AddCommand(newServeCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

// loadConfig loads the config and configures logging from it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := logging.Configure(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		return nil, err
	}
	return cfg, nil
}
