package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	_ "github.com/oggyb/sportly/internal/api/rpc" // registers the JSON codec
	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/auth"
)

// NewGRPCServer builds a gRPC server with the logging and auth interceptors
// and registers all provided services plus the health service.
func NewGRPCServer(appCtx *app.AppContext, tokens *auth.Manager, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(appCtx.Logger),
			AuthInterceptor(tokens),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return grpcServer
}

// StartGRPCServer listens on the configured address and serves until ctx
// is cancelled, then stops gracefully.
func StartGRPCServer(ctx context.Context, appCtx *app.AppContext, tokens *auth.Manager, registrars ...Registrar) error {
	cfg := appCtx.Config
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer := NewGRPCServer(appCtx, tokens, registrars...)

	go func() {
		<-ctx.Done()
		appCtx.Logger.Info("shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}
