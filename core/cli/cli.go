package cli

import (
	"github.com/cosmosgate/cosmosgate/core/cli/cmd"
	"github.com/cosmosgate/cosmosgate/core/logger"
)

// Execute runs the CLI
func Execute() error {
	if err := cmd.Execute(); err != nil {
		logger.New("cli").Error(err.Error())
		return err
	}
	return nil
}
