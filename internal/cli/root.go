// Package cli assembles the bookwatch command-line interface: a cobra
// root command with "server" and "client" subcommands, configured
// through flags, environment variables, and sane defaults via viper.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type startTimeKey struct{}

// NewRootCommand builds the bookwatch root command. version/commit/date
// are baked in at build time via -ldflags, matching the platform's
// other binaries.
func NewRootCommand(logger *zap.Logger, version, commit, date string) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:     "bookwatch",
		Short:   "Multi-exchange order book aggregator",
		Version: version + " (commit: " + commit + ", built: " + date + ")",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(context.WithValue(cmd.Context(), startTimeKey{}, time.Now()))
			logger.Info("command started",
				zap.String("command", cmd.CommandPath()),
				zap.Strings("args", args),
			)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Context().Value(startTimeKey{}).(time.Time)
			logger.Info("command completed",
				zap.String("command", cmd.CommandPath()),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("address", "", "gRPC address (default [::1]:50501 for both server and client)")
	root.PersistentFlags().String("symbol", "", "currency pair, e.g. ETH/BTC")
	root.PersistentFlags().Int("depth", 0, "number of bid/ask levels to keep per side")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); stored in the config but not applied, the logger always runs at info")

	_ = v.BindPFlag("address", root.PersistentFlags().Lookup("address"))
	_ = v.BindPFlag("symbol", root.PersistentFlags().Lookup("symbol"))
	_ = v.BindPFlag("depth", root.PersistentFlags().Lookup("depth"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServerCommand(v, logger))
	root.AddCommand(newClientCommand(v, logger))

	return root
}
