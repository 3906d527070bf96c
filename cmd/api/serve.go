package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/auth"
	"github.com/orda-service/internal/events"
	ordagrpc "github.com/orda-service/internal/grpc"
	handler "github.com/orda-service/internal/http"
	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/repo"
	"github.com/orda-service/internal/service"
	"github.com/orda-service/internal/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(ctx, cfg.Events, log)
	if err != nil {
		_ = store.Close(ctx)
		return err
	}

	secret := cfg.Auth.SigningSecret
	if secret == "" {
		// auth disabled: keys only need to be verifiable by this process
		secret = ident.New()
	}
	keySigner := auth.NewTokens(secret)
	keys := service.NewKeyService(collection(store, repo.APIKeysCollection), keySigner, ident.New, publisher)
	h := handler.NewHandler(
		service.NewOrderService(collection(store, repo.OrdersCollection), ident.New, publisher),
		service.NewCustomerService(collection(store, repo.CustomersCollection), auth.NewBcryptHasher(), ident.New, publisher),
		service.NewItemService(collection(store, repo.ItemsCollection), ident.New, publisher),
		keys,
	)

	opts := handler.Options{
		APIPrefix:  cfg.HTTP.APIPrefix,
		StaticDir:  cfg.HTTP.StaticDir,
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
		Metrics:    handler.NewMetrics(),
		Ping:       store.Ping,
	}
	if cfg.Auth.Enabled {
		opts.ResourceAuth = auth.RequireAPIKey(keySigner, keys)
		opts.AdminAuth = auth.RequireAdminSecret(cfg.Auth.AdminSecret)
	}

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(log, h, opts)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(r, "http.server"),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.HTTP.Port), zap.String("api_prefix", cfg.HTTP.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	var grpcSrv *ordagrpc.Server
	if cfg.GRPC.Port != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			log.Fatal("grpc listen", zap.Error(err))
		}
		grpcSrv = ordagrpc.NewServer(log, store.Ping)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				log.Error("grpc server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.Shutdown(shutdownCtx)
	}

	closePublisher(publisher, log)
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("error closing store", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("error flushing traces", zap.Error(err))
	}

	log.Info("server exiting")
	return nil
}

func closePublisher(p events.Publisher, log *zap.Logger) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		log.Error("error closing event publisher", zap.Error(err))
	}
}
