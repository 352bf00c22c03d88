package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cosmosgate/cosmosgate/core/config"
	"github.com/cosmosgate/cosmosgate/core/logger"
	"github.com/cosmosgate/cosmosgate/core/runtime"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:           "start",
	Short:         "Run the query server",
	RunE:          startServer,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides PORT env var)")
	startCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG (overrides LOG_LEVEL env var)")
	startCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
}

func startServer(cmd *cobra.Command, args []string) error {
	LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	if logLevel != 0 {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = logger.LevelDebug
	}
	logger.SetLevel(cfg.LogLevel)

	rt, err := runtime.New(cfg)
	if err != nil {
		return err
	}
	return rt.Start()
}
