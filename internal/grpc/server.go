package grpc

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/orda-service/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ServiceName is reported alongside the overall ("") health status.
const ServiceName = "orda.api"

const requestIDMetadataKey = "x-request-id"

// Server exposes the standard gRPC health protocol so orchestrators can probe
// the service without going through HTTP.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewServer(log *zap.Logger, ping func(context.Context) error) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(log)))
	healthpb.RegisterHealthServer(srv, &storeHealth{Server: hs, ping: ping})

	return &Server{srv: srv, health: hs, log: log}
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Shutdown marks every service NOT_SERVING and drains in-flight calls until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}

// storeHealth reports NOT_SERVING while the document store is unreachable.
type storeHealth struct {
	*health.Server
	ping func(context.Context) error
}

func (h *storeHealth) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			logger.FromContext(ctx).Error("store ping failed", zap.Error(err))
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return h.Server.Check(ctx, req)
}

func UnaryLoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx, reqLog := setupContext(ctx, log)

		resp, err := handler(ctx, req)

		reqLog.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

func setupContext(ctx context.Context, log *zap.Logger) (context.Context, *zap.Logger) {
	requestID := getRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	reqLog := log.With(zap.String("request_id", requestID))
	return logger.WithContext(ctx, reqLog), reqLog
}

func getRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(requestIDMetadataKey)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}
