package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godilite/feedback-ratings/internal/config"
	handler "github.com/godilite/feedback-ratings/internal/grpc"
	"github.com/godilite/feedback-ratings/internal/httpapi"
	"github.com/godilite/feedback-ratings/internal/repository"
	"github.com/godilite/feedback-ratings/internal/service"
	"github.com/godilite/feedback-ratings/pkg/cache"
	dbbuilder "github.com/godilite/feedback-ratings/pkg/database"
	grpcsrv "github.com/godilite/feedback-ratings/pkg/grpc/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      handler.Cacher
	grpcServer *grpcsrv.Server
	httpServer *http.Server
	httpLis    net.Listener
}

// OpenDatabase opens the pool described by cfg and makes sure the schema exists.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, *repository.FeedbackRepository, error) {
	if cfg.DBDriver == "sqlite3" && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}

	repo := repository.NewFeedbackRepository(dbPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("schema init failed: %w", err)
	}
	return dbPool, repo, nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) handler.Cacher {
	if !cfg.CacheEnabled {
		logger.Info("cache disabled")
		return cache.Nop{}
	}

	cacheClient, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
	if err != nil {
		logger.Warn("cache unavailable, serving without it",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err))
		return cache.Nop{}
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return cacheClient
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	return newApp(ctx, cfg, logger, nil)
}

// newApp uses cacheClient when given, otherwise the one cfg describes.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, cacheClient handler.Cacher) (*App, error) {
	dbPool, repo, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database pool initialized",
		zap.String("driver", cfg.DBDriver),
		zap.String("path", cfg.DBPath))

	if cacheClient == nil {
		cacheClient = newCache(ctx, cfg, logger)
	}

	// both transports write through the invalidating service so the gRPC read cache never
	// outlives an HTTP write
	ratingService := service.NewInvalidatingService(
		service.NewRatingService(repo, logger.Named("service"), cfg.GaugeOptions()),
		cacheClient,
		logger,
	)

	grpcHandlers := handler.NewGRPCHandlers(ratingService, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithLogging(true),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithRecovery(cfg.GRPCRecoveryEnabled),
		grpcsrv.WithMaxRecvMsgSize(cfg.GRPCMaxRecvBytes),
	)
	if err != nil {
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterService(&handler.ServiceDesc, grpcHandlers)

	httpLis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
	if err != nil {
		_ = grpcServer.Shutdown(ctx)
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to listen on http port %d: %w", cfg.HTTPPort, err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(ratingService, httpapi.Options{
		Logger:         logger,
		RateLimit:      cfg.HTTPRateLimit,
		RateBurst:      cfg.HTTPRateBurst,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		httpLis: httpLis,
	}, nil
}

// GRPCAddr and HTTPAddr report the bound listener addresses.
func (a *App) GRPCAddr() net.Addr { return a.grpcServer.Addr() }
func (a *App) HTTPAddr() net.Addr { return a.httpLis.Addr() }

// Run serves gRPC and HTTP until ctx is canceled or either server fails,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting",
		zap.String("grpc_addr", a.GRPCAddr().String()),
		zap.String("http_addr", a.HTTPAddr().String()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.grpcServer.Serve)
	g.Go(func() error {
		if err := a.httpServer.Serve(a.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.shutdown()
		return nil
	})

	err := g.Wait()
	_ = a.logger.Sync()
	return err
}

func (a *App) shutdown() {
	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// stop advertising the service before draining connections
	a.grpcServer.SetServiceHealth(handler.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("grpc shutdown error", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	if ctx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
		return
	}
	a.logger.Info("graceful shutdown completed successfully")
}
