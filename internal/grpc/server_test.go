package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, log *zap.Logger, ping func(context.Context) error) (healthpb.HealthClient, *Server) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(log, ping)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return healthpb.NewHealthClient(conn), srv
}

func TestHealthCheck(t *testing.T) {
	var down atomic.Bool
	client, _ := startServer(t, zap.NewNop(), func(context.Context) error {
		if down.Load() {
			return errors.New("store unreachable")
		}
		return nil
	})
	ctx := context.Background()

	for _, service := range []string{"", ServiceName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus(), "service %q", service)
	}

	down.Store(true)
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthCheckUnknownService(t *testing.T) {
	client, _ := startServer(t, zap.NewNop(), nil)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	assert.Error(t, err)
}

func TestInterceptorLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	client, _ := startServer(t, zap.New(core), nil)

	ctx := metadata.AppendToOutgoingContext(context.Background(), requestIDMetadataKey, "req-42")
	_, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("grpc request").Len() > 0
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("grpc request").All()[0].ContextMap()
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "/grpc.health.v1.Health/Check", entry["method"])
	assert.Equal(t, "OK", entry["code"])
}
