package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/amigurumi-order-service/config"
	"github.com/fekuna/amigurumi-order-service/internal/auth"
	authRepoPkg "github.com/fekuna/amigurumi-order-service/internal/auth/repository"
	catH "github.com/fekuna/amigurumi-order-service/internal/catalog/handler"
	catRepoPkg "github.com/fekuna/amigurumi-order-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/amigurumi-order-service/internal/catalog/usecase"
	clientRepoPkg "github.com/fekuna/amigurumi-order-service/internal/client/repository"
	clientUCPkg "github.com/fekuna/amigurumi-order-service/internal/client/usecase"
	"github.com/fekuna/amigurumi-order-service/internal/formschema"
	"github.com/fekuna/amigurumi-order-service/internal/httpapi"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	orderH "github.com/fekuna/amigurumi-order-service/internal/order/handler"
	orderListenerPkg "github.com/fekuna/amigurumi-order-service/internal/order/listener"
	orderRepoPkg "github.com/fekuna/amigurumi-order-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/amigurumi-order-service/internal/order/usecase"
	setH "github.com/fekuna/amigurumi-order-service/internal/settings/handler"
	setRepoPkg "github.com/fekuna/amigurumi-order-service/internal/settings/repository"
	setUCPkg "github.com/fekuna/amigurumi-order-service/internal/settings/usecase"
	"github.com/fekuna/amigurumi-order-service/migrations"
	"github.com/fekuna/amigurumi-order-service/pkg/broker"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/database/postgres"
	"github.com/fekuna/amigurumi-order-service/pkg/i18n"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
	"github.com/fekuna/amigurumi-order-service/pkg/middleware"
	"github.com/fekuna/amigurumi-order-service/pkg/search"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	translator, err := i18n.New(cfg.Server.DefaultLocale)
	if err != nil {
		appLogger.Fatal("Could not load locales", zap.Error(err))
	}

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(db, migrations.FS); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	setRepo := setRepoPkg.NewPGRepository(db)
	clientRepo := clientRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	authRepo := authRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 6. Initialize Kafka
	producer := broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 7. Initialize Elasticsearch
	var (
		esClient    *search.Client
		searchIndex order.SearchIndex
	)
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, order search falls back to the database", zap.Error(err))
			esClient = nil
		} else {
			searchIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 8. Initialize UseCases
	authSvc := auth.NewService(authRepo, auth.NewCacheSessionStore(redisClient), cfg.Session.TTL(), appLogger)
	schemas := formschema.NewRegistry()

	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, appLogger)
	setUC := setUCPkg.NewSettingsUseCase(setRepo, redisClient, appLogger)
	clientUC := clientUCPkg.NewClientUseCase(clientRepo, authSvc, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(
		orderRepo,
		catUC,
		setUC,
		clientUC,
		schemas,
		producer,
		redisClient,
		searchIndex,
		appLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start the search projection
	if esClient != nil {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		defer consumer.Close()
		projector := orderListenerPkg.NewSearchProjector(consumer, esClient, appLogger)
		go projector.Start(ctx)
		appLogger.Info("Order search projection started", zap.String("group", cfg.Kafka.GroupID))
	}

	// 10. Start gRPC Server
	grpcAddr := config.ListenAddr(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryLogging(appLogger),
			auth.UnaryServerInterceptor(authSvc),
		),
	)

	catH.Register(grpcServer, catH.NewCatalogHandler(catUC, appLogger))
	setH.Register(grpcServer, setH.NewSettingsHandler(setUC, appLogger))
	orderH.Register(grpcServer, orderH.NewOrderHandler(orderUC, appLogger))
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 11. Start HTTP Server
	api := httpapi.NewHandler(catUC, orderUC, clientUC, authSvc, schemas, translator, appLogger)
	httpServer := &http.Server{
		Addr:              config.ListenAddr(cfg.Server.HTTPPort),
		Handler:           middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second)(api.Router()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP shutdown did not finish cleanly", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
