// Package grpcserver runs the health sidecar used by orchestrators to probe
// liveness without touching the HTTP API.
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/splatmarket/splatmarket/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
}

// New binds the listener on port. Serve must be called to start accepting.
func New(port string) (*Server, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("grpcserver: listen :%s: %w", port, err)
	}

	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(recoverUnary, logUnary))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{grpc: gs, health: hs, lis: lis}, nil
}

// recoverUnary converts handler panics into Internal errors.
func recoverUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "grpc panic recovered", "method", info.FullMethod, "error", rec)
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// logUnary logs one line per RPC.
func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Debug(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, err
}

// Serve blocks until Stop is called.
func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

// SetServing flips the reported health state for the whole process.
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !ok {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Stop drains in-flight RPCs and shuts down.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
