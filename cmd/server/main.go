package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Higirayn/Price/internal/adapter/handler"
	"github.com/Higirayn/Price/internal/adapter/storage"
	"github.com/Higirayn/Price/internal/config"
	"github.com/Higirayn/Price/internal/core/service"
	"github.com/Higirayn/Price/internal/database"
	"github.com/Higirayn/Price/internal/logger"
	"github.com/Higirayn/Price/internal/port"
	"github.com/Higirayn/Price/internal/tracing"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "price service: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	shutdownTracing, err := tracing.Setup(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database", zap.String("driver", cfg.Database.Driver), zap.String("host", cfg.Database.Host))

	sqlAdapter, err := storage.NewSQLAdapter(db, storage.Dialect(cfg.Database.Driver))
	if err != nil {
		return err
	}
	if err := sqlAdapter.CheckSchema(ctx); err != nil {
		return err
	}

	// Initialize batch registry
	var registry port.BatchRegistry
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		registry = storage.NewRedisAdapter(rdb, cfg.Redis.BatchTTL)
	} else {
		log.Info("redis not configured, using in-memory batch registry")
		registry = storage.NewMemoryRegistry(cfg.Redis.BatchTTL)
	}

	// Initialize services
	engine := service.NewUpdateEngine(sqlAdapter, log)
	reader := service.NewAggregateReader(sqlAdapter)
	dispatcher := service.NewDispatcher(engine, registry, service.DispatcherConfig{
		Workers:       cfg.Dispatcher.Workers,
		QueueSize:     cfg.Dispatcher.QueueSize,
		UpdateTimeout: cfg.Dispatcher.UpdateTimeout,
	}, log)
	dispatcher.Start()

	// Initialize HTTP server
	mux := http.NewServeMux()
	handler.NewHTTPHandler(dispatcher, reader, sqlAdapter.Ping, log).Routes(mux)
	handler.NewWSHandler(engine, dispatcher, reader, log).Routes(mux)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler.WithRequestID(handler.WithLogging(log.Named("access"), mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.NewGRPCHandler(dispatcher, reader, log).Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("gRPC server listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		log.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		log.Info("gRPC server stopped")

		// Accepted batches finish before the pool goes away.
		if err := dispatcher.Close(shutdownCtx); err != nil {
			log.Error("dispatcher drain incomplete", zap.Error(err))
		}

		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
