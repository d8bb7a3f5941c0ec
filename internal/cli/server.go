package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/DimaJoyti/bookwatch/api/proto"
	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/DimaJoyti/bookwatch/internal/exchange"
	"github.com/DimaJoyti/bookwatch/internal/fanout"
	appmetrics "github.com/DimaJoyti/bookwatch/internal/metrics"
	"github.com/DimaJoyti/bookwatch/internal/merger"
	"github.com/DimaJoyti/bookwatch/internal/shutdown"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	metricsAddr   = ":9090"
	shutdownGrace = 30 * time.Second
	serviceName   = "bookwatch"
)

func newServerCommand(v *viper.Viper, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the order book aggregator and gRPC streaming server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(v)
			if err != nil {
				return err
			}
			if cfg.Address == "" {
				cfg.Address = "[::1]:50501"
			}
			return runServer(cmd.Context(), cfg, logger)
		},
	}
	return cmd
}

func runServer(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	symbol, err := domain.ParseSymbol(cfg.Symbol)
	if err != nil {
		return fmt.Errorf("invalid symbol %q: %w", cfg.Symbol, err)
	}

	registry := appmetrics.NewRegistry()
	exchangeMetrics := exchange.NewMetrics(registry)
	mergerMetrics := merger.NewMetrics(registry)
	fanoutMetrics := fanout.NewMetrics(registry)

	coordinator := shutdown.New(ctx, logger, shutdownGrace)

	merged := make(chan domain.Summary)
	defer close(merged)

	binanceOut := make(chan domain.Summary)
	bitstampOut := make(chan domain.Summary)

	binance := exchange.NewBinanceAdapter(exchange.Config{Symbol: symbol, Depth: cfg.Depth, Logger: logger.Named("binance")}, exchangeMetrics)
	bitstamp := exchange.NewBitstampAdapter(exchange.Config{Symbol: symbol, Depth: cfg.Depth, Logger: logger.Named("bitstamp")}, exchangeMetrics)

	coordinator.Go(func() {
		if err := binance.Run(coordinator.Context(), binanceOut); err != nil {
			logger.Error("binance adapter stopped", zap.Error(err))
		}
	})
	coordinator.Go(func() {
		if err := bitstamp.Run(coordinator.Context(), bitstampOut); err != nil {
			logger.Error("bitstamp adapter stopped", zap.Error(err))
		}
	})
	coordinator.Go(func() {
		forward(coordinator.Context(), binanceOut, merged)
	})
	coordinator.Go(func() {
		forward(coordinator.Context(), bitstampOut, merged)
	})

	m := merger.New(cfg.Depth, logger.Named("merger"), mergerMetrics)
	fanoutServer := fanout.New(logger.Named("fanout"), fanoutMetrics)

	mergerOut := make(chan domain.Summary)
	coordinator.Go(func() {
		m.Run(coordinator.Context(), merged, mergerOut)
	})
	coordinator.Go(func() {
		fanoutServer.Run(coordinator.Context(), mergerOut)
	})

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(loggingInterceptor(logger)),
		grpc.StreamInterceptor(streamLoggingInterceptor(logger)),
	)
	proto.RegisterBookSummaryServer(grpcServer, fanoutServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	coordinator.Go(func() {
		logger.Info("gRPC server listening", zap.String("address", cfg.Address))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", zap.Error(err))
		}
	})

	coordinator.Go(func() {
		if err := appmetrics.Serve(coordinator.Context(), metricsAddr, registry, logger.Named("metrics")); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	})

	coordinator.ListenForSignals(ctx)

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		grpcServer.Stop()
	}

	if !coordinator.Wait() {
		logger.Warn("some tasks did not stop within the grace period")
	}
	return nil
}

func forward(ctx context.Context, in <-chan domain.Summary, out chan<- domain.Summary) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
	}
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("unary request completed",
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return resp, err
	}
}

func streamLoggingInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logger.Info("stream request completed",
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
