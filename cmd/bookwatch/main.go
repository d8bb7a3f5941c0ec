// Command bookwatch runs the order book aggregator, or a small client
// that subscribes to a running instance and prints each summary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/DimaJoyti/bookwatch/internal/cli"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	root := cli.NewRootCommand(logger, version, commit, date)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
