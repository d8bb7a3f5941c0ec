package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/DimaJoyti/bookwatch/api/proto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newClientCommand(v *viper.Viper, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Subscribe to a running bookwatch server and print each summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(v)
			if err != nil {
				return err
			}
			if cfg.Address == "" {
				cfg.Address = "[::1]:50501"
			}
			return runClient(cmd.Context(), cfg, logger)
		},
	}
	return cmd
}

func runClient(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", cfg.Address, err)
	}
	defer conn.Close()

	client := proto.NewBookSummaryClient(conn)
	stream, err := client.Subscribe(ctx, &proto.Empty{})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	for {
		summary, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream error: %w", err)
		}
		logger.Info("summary received",
			zap.Float64("spread", summary.GetSpread()),
			zap.Int("bids", len(summary.GetBids())),
			zap.Int("asks", len(summary.GetAsks())),
		)
		fmt.Printf("spread=%v bids=%d asks=%d\n", summary.GetSpread(), len(summary.GetBids()), len(summary.GetAsks()))
	}
}
