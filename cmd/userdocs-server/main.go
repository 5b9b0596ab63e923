package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/userdocs/userdocs/internal/config"
	"github.com/userdocs/userdocs/internal/health"
	"github.com/userdocs/userdocs/internal/server"
	"github.com/userdocs/userdocs/internal/storage"
	"github.com/userdocs/userdocs/internal/users"
)

// AppState holds all application services
type AppState struct {
	Mongo         *storage.Client
	UserService   *users.UserServiceImpl
	HealthManager *health.Manager
	Logger        *zap.Logger
}

func main() {
	// Logger settings come from config, so a config error is reported after the logger exists
	loadErr := config.Load()
	if loadErr != nil {
		config.LoadDefault()
	}

	logger := initLogger()
	defer func() { _ = logger.Sync() }()

	if loadErr != nil {
		logger.Fatal("Failed to load configuration", zap.Error(loadErr))
	}

	as := newAppState(context.Background(), logger)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(as.UserService, as.HealthManager, server.Options{
		AllowOrigins:      config.Cors().AllowOrigins,
		ExposeFaultDetail: config.Http().ExposeFaultDetail,
	}, logger)

	addr := config.Http().Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting userdocs server",
			zap.String("address", addr),
			zap.Bool("mongodb_connected", as.Mongo.Available()))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
		shutdown(as, srv)
	}
	logger.Info("Server shutdown complete")
}

// newAppState runs the one-time store check and wires the services. An
// unreachable store leaves the user service without a store, so every user
// request answers 503 until restart.
func newAppState(ctx context.Context, logger *zap.Logger) *AppState {
	mongoConfig := config.Mongo()

	logger.Info("Database configuration",
		zap.String("database", mongoConfig.Database),
		zap.String("collection", mongoConfig.Collection),
		zap.Duration("connect_timeout", mongoConfig.ConnectTimeout),
		zap.Duration("server_selection_timeout", mongoConfig.ServerSelectionTimeout))

	mongo := storage.Connect(ctx, storage.MongoConfig{
		URI:                    mongoConfig.URI,
		Database:               mongoConfig.Database,
		ConnectTimeout:         mongoConfig.ConnectTimeout,
		ServerSelectionTimeout: mongoConfig.ServerSelectionTimeout,
	}, logger)

	var userService *users.UserServiceImpl
	if mongo.Available() {
		userService = users.NewUserService(users.NewMongoUserStore(mongo.Collection(mongoConfig.Collection)))
	} else {
		userService = users.NewUserService(nil)
	}

	healthManager := health.NewManager(logger)
	healthManager.AddChecker(mongo)

	return &AppState{
		Mongo:         mongo,
		UserService:   userService,
		HealthManager: healthManager,
		Logger:        logger,
	}
}

// initLogger builds a production (json) or development logger at the configured level.
// Unknown levels fall back to info.
func initLogger() *zap.Logger {
	logConfig := config.Logger()

	zapConfig := zap.NewDevelopmentConfig()
	if logConfig.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(logConfig.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// shutdown drains in-flight requests, then releases the store connection.
func shutdown(as *AppState, srv *http.Server) {
	as.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		as.Logger.Error("Error during server shutdown", zap.Error(err))
	}
	if err := as.Mongo.Close(ctx); err != nil {
		as.Logger.Error("Error closing mongodb client", zap.Error(err))
	}
}
