package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmosgate/cosmosgate/core/config"
	"github.com/cosmosgate/cosmosgate/core/logger"
	"github.com/cosmosgate/cosmosgate/core/runtime/connectors"
)

// checkCmd validates configuration and store reachability without
// starting the server.
var checkCmd = &cobra.Command{
	Use:           "check",
	Short:         "Validate configuration and ping the document store",
	RunE:          runCheck,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	LoadEnvFiles()
	log := logger.New("check")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Infof("Configuration valid: connector=%s database=%s container=%s", cfg.Connector, cfg.DatabaseID, cfg.ContainerID)

	conn, err := connectors.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	defer func() { _ = conn.Close(ctx) }()

	target := connectors.Target{Database: cfg.DatabaseID, Container: cfg.ContainerID}
	if err := conn.Ping(ctx, target); err != nil {
		return err
	}

	log.Infof("Store reachable: %s/%s", cfg.DatabaseID, cfg.ContainerID)
	return nil
}
